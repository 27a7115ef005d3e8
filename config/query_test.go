package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_Defaults(t *testing.T) {
	cfg := Read("")
	require.Equal(t, Config{SourceURL: "", TileCount: DefaultTileCount}, cfg)
	require.Equal(t, 10, cfg.TileCount)
}

func TestRead_URLAndCount(t *testing.T) {
	cfg := Read("?url=https://example.test/badge&count=3")
	require.Equal(t, "https://example.test/badge", cfg.SourceURL)
	require.Equal(t, 3, cfg.TileCount)

	// The leading "?" is optional and escapes are decoded.
	cfg = Read("url=http%3A%2F%2Fcolors.local%2F%3Fa%3Db&count=25")
	require.Equal(t, "http://colors.local/?a=b", cfg.SourceURL)
	require.Equal(t, 25, cfg.TileCount)
}

func TestRead_FirstValueWins(t *testing.T) {
	cfg := Read("url=a&url=b&count=2&count=7")
	require.Equal(t, "a", cfg.SourceURL)
	require.Equal(t, 2, cfg.TileCount)
}

func TestRead_Count(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"count=0", 0},
		{"count=5x", 5},
		{"count=10abc", 10},
		{"count=%20%2012", 12},
		{"count=+4", 4},
		{"count=0x10", 16},
		{"count=007", 7},
		{"count=3.9", 3},
		{"count=abc", FallbackTileCount},
		{"count=", FallbackTileCount},
		{"count=-3", FallbackTileCount},
		{"count=-", FallbackTileCount},
		{"count=0x", FallbackTileCount},
		{"count=99999999999999999999999", FallbackTileCount},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			cfg := Read(tt.query)
			require.Equal(t, tt.want, cfg.TileCount)
			require.GreaterOrEqual(t, cfg.TileCount, 0)
		})
	}
}

func TestRead_MalformedQueryKeepsGoodPairs(t *testing.T) {
	cfg := Read("url=http://ok.test&bad=%zz&count=4")
	require.Equal(t, "http://ok.test", cfg.SourceURL)
	require.Equal(t, 4, cfg.TileCount)
}

func TestRead_KeepsValuesGoParseQueryRejects(t *testing.T) {
	tests := []struct {
		query string
		want  Config
	}{
		{"?url=http://a.test/x;y&count=3", Config{SourceURL: "http://a.test/x;y", TileCount: 3}},
		{"?url=http://a.test/%zz&count=3", Config{SourceURL: "http://a.test/%zz", TileCount: 3}},
		{"?url=http://a.test/%2&count=3", Config{SourceURL: "http://a.test/%2", TileCount: 3}},
		{"?count=%zz5&url=http://a.test", Config{SourceURL: "http://a.test", TileCount: FallbackTileCount}},
		{"?url=a+b%20c&count", Config{SourceURL: "a b c", TileCount: FallbackTileCount}},
		{"?url=http://a.test/?x=1", Config{SourceURL: "http://a.test/?x=1", TileCount: DefaultTileCount}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require.Equal(t, tt.want, Read(tt.query))
		})
	}
}

func TestConfig_Clamp(t *testing.T) {
	cfg, clamped := Config{SourceURL: "x", TileCount: 100000000}.Clamp(DefaultMaxTiles)
	require.True(t, clamped)
	require.Equal(t, Config{SourceURL: "x", TileCount: DefaultMaxTiles}, cfg)

	cfg, clamped = Config{TileCount: 25}.Clamp(DefaultMaxTiles)
	require.False(t, clamped)
	require.Equal(t, 25, cfg.TileCount)

	cfg, clamped = Config{TileCount: 5000}.Clamp(0)
	require.False(t, clamped)
	require.Equal(t, 5000, cfg.TileCount)
}

func TestFromAddress(t *testing.T) {
	cfg := FromAddress("http://colorgrid.local/?url=http://colors.local&count=25#top")
	require.Equal(t, "http://colors.local", cfg.SourceURL)
	require.Equal(t, 25, cfg.TileCount)

	cfg = FromAddress("?count=2")
	require.Equal(t, 2, cfg.TileCount)

	cfg = FromAddress("http://colorgrid.local/")
	require.Equal(t, Config{TileCount: DefaultTileCount}, cfg)
}

func TestFromAddress_BareQueryWithQuestionMark(t *testing.T) {
	cfg := FromAddress("url=http://a.test/status?env=prod&count=3")
	require.Equal(t, Config{SourceURL: "http://a.test/status?env=prod", TileCount: 3}, cfg)

	cfg = FromAddress("?url=http://a.test/status?env=prod&count=3")
	require.Equal(t, Config{SourceURL: "http://a.test/status?env=prod", TileCount: 3}, cfg)

	cfg = FromAddress("http://viewer.local/?url=http://a.test/status?env=prod&count=3")
	require.Equal(t, Config{SourceURL: "http://a.test/status?env=prod", TileCount: 3}, cfg)
}
