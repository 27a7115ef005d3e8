package content

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

func requireColour(t *testing.T, want string, got colorful.Color) {
	t.Helper()
	require.Equal(t, want, got.Hex())
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#ff0000", "#ff0000"},
		{"#0F0", "#00ff00"},
		{"rgb(255, 0, 0)", "#ff0000"},
		{"rgb(0,128,255)", "#0080ff"},
		{"RGBA(0, 0, 255, 0.5)", "#0000ff"},
		{"rgb(100%, 0%, 0%)", "#ff0000"},
		{"rgb(300, 0, 0)", "#ff0000"},
		{"violet", "#ee82ee"},
		{" Green !important", "#008000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := ParseColour(tt.in)
			require.True(t, ok)
			requireColour(t, tt.want, c)
		})
	}

	for _, bad := range []string{"", "banana", "#12", "rgb(a, b, c)", "#gggggg"} {
		_, ok := ParseColour(bad)
		require.False(t, ok, bad)
	}
}

func TestClassifyStatus(t *testing.T) {
	require.Equal(t, StatusFailed, ClassifyStatus("Deployment FAILED: image pull error"))
	require.Equal(t, StatusDegraded, ClassifyStatus("2/3 replicas, degraded"))
	require.Equal(t, StatusProgressing, ClassifyStatus("rollout in progress"))
	require.Equal(t, StatusHealthy, ClassifyStatus("all pods Ready"))
	require.Equal(t, StatusUnknown, ClassifyStatus("blue"))
	require.Equal(t, StatusUnknown, ClassifyStatus(""))
	// Whole words only.
	require.Equal(t, StatusUnknown, ClassifyStatus("download setup"))
	require.Equal(t, "FAILED", StatusFailed.String())
}

// The page served by the colour demo deployments.
const colourPage = `<!DOCTYPE html>
<html>
  <head>
    <style>
      body {
        background-color: rgb(0, 128, 0);
      }
    </style>
  </head>
  <body></body>
</html>`

func TestDecode_HTML(t *testing.T) {
	snap, err := decode("text/html; charset=utf-8", []byte(colourPage))
	require.NoError(t, err)
	require.True(t, snap.HasColour)
	requireColour(t, "#008000", snap.Colour)
	require.Equal(t, "text/html", snap.ContentType)

	page := `<html><head><title>payments v2</title>
		<meta name="theme-color" content="#3366ff"></head>
		<body style="margin:0">  Rollout   in progress </body></html>`
	snap, err = decode("", []byte(page))
	require.NoError(t, err)
	require.Equal(t, "payments v2", snap.Title)
	require.Equal(t, "Rollout in progress", snap.Detail)
	require.Equal(t, StatusProgressing, snap.Status)
	requireColour(t, "#3366ff", snap.Colour)

	snap, err = decode("text/html", []byte(`<body style="background: red; color: white">x</body>`))
	require.NoError(t, err)
	requireColour(t, "#ff0000", snap.Colour)
}

func TestDecode_Feed(t *testing.T) {
	rss := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>deploys</title>
<item><title>v41 succeeded</title><pubDate>Mon, 05 Oct 2026 10:00:00 GMT</pubDate></item>
<item><title>v42 failed health check</title><pubDate>Tue, 06 Oct 2026 10:00:00 GMT</pubDate></item>
</channel></rss>`
	snap, err := decode("application/rss+xml", []byte(rss))
	require.NoError(t, err)
	require.Equal(t, "deploys", snap.Title)
	require.Equal(t, "v42 failed health check", snap.Detail)
	require.Equal(t, StatusFailed, snap.Status)
	require.False(t, snap.HasColour)

	_, err = decode("application/rss+xml", []byte("not a feed"))
	require.ErrorContains(t, err, "parsing feed")
}

func TestDecode_JSON(t *testing.T) {
	snap, err := decode("application/json", []byte(`{"red":255,"green":0,"blue":0}`))
	require.NoError(t, err)
	requireColour(t, "#ff0000", snap.Colour)

	snap, err = decode("application/json", []byte(`{"name":"api","status":"Healthy","colour":"#00ff00"}`))
	require.NoError(t, err)
	require.Equal(t, "api", snap.Title)
	require.Equal(t, "Healthy", snap.Detail)
	require.Equal(t, StatusHealthy, snap.Status)
	requireColour(t, "#00ff00", snap.Colour)

	_, err = decode("application/json", []byte(`{`))
	require.ErrorContains(t, err, "decoding json")
}

func TestDecode_Text(t *testing.T) {
	snap, err := decode("text/plain", []byte("  #abcdef\n"))
	require.NoError(t, err)
	requireColour(t, "#abcdef", snap.Colour)

	snap, err = decode("", []byte("service is down"))
	require.NoError(t, err)
	require.False(t, snap.HasColour)
	require.Equal(t, StatusFailed, snap.Status)

	// Sniffed JSON served as text/plain.
	snap, err = decode("text/plain", []byte(`{"color":"blue"}`))
	require.NoError(t, err)
	requireColour(t, "#0000ff", snap.Colour)
}
