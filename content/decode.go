package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mmcdole/gofeed"
)

// Snapshot is what one load of a source showed.
type Snapshot struct {
	Title       string
	Detail      string
	Colour      colorful.Color
	HasColour   bool
	Status      Status
	ContentType string
}

const maxDetail = 120

// decode dispatches on the media type, falling back to sniffing the body.
func decode(contentType string, body []byte) (Snapshot, error) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt == "" || mt == "application/octet-stream" || mt == "text/plain" {
		mt = sniff(body, mt)
	}

	var (
		snap Snapshot
		derr error
	)
	switch {
	case mt == "text/html" || mt == "application/xhtml+xml":
		snap, derr = decodeHTML(body)
	case strings.HasSuffix(mt, "rss+xml") || strings.HasSuffix(mt, "atom+xml") ||
		mt == "application/xml" || mt == "text/xml":
		snap, derr = decodeFeed(body)
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		snap, derr = decodeJSON(body)
	default:
		snap = decodeText(body)
	}
	if derr != nil {
		return Snapshot{}, derr
	}
	snap.ContentType = mt
	if snap.Status == StatusUnknown {
		snap.Status = ClassifyStatus(snap.Title + " " + snap.Detail)
	}
	return snap, nil
}

func sniff(body []byte, fallback string) string {
	trimmed := bytes.TrimSpace(body)
	lower := bytes.ToLower(trimmed[:min(len(trimmed), 512)])
	switch {
	case bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html")):
		return "text/html"
	case bytes.HasPrefix(lower, []byte("<?xml")) || bytes.HasPrefix(lower, []byte("<rss")) || bytes.HasPrefix(lower, []byte("<feed")):
		return "application/xml"
	case bytes.HasPrefix(trimmed, []byte("{")):
		return "application/json"
	case fallback != "":
		return fallback
	default:
		return "text/plain"
	}
}

var backgroundDecl = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([^;}\n]+)`)

func decodeHTML(body []byte) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing html: %w", err)
	}

	snap := Snapshot{
		Title:  collapse(doc.Find("title").First().Text()),
		Detail: truncate(collapse(doc.Find("body").First().Text()), maxDetail),
	}

	var candidates []string
	if style, ok := doc.Find("body").First().Attr("style"); ok {
		candidates = append(candidates, backgroundValues(style)...)
	}
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		candidates = append(candidates, backgroundValues(s.Text())...)
	})
	if theme, ok := doc.Find(`meta[name="theme-color"]`).First().Attr("content"); ok {
		candidates = append(candidates, theme)
	}
	for _, c := range candidates {
		if col, ok := ParseColour(c); ok {
			snap.Colour, snap.HasColour = col, true
			break
		}
	}
	return snap, nil
}

func backgroundValues(css string) []string {
	var out []string
	for _, m := range backgroundDecl.FindAllStringSubmatch(css, -1) {
		out = append(out, m[1])
	}
	return out
}

func decodeFeed(body []byte) (Snapshot, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing feed: %w", err)
	}

	snap := Snapshot{Title: collapse(feed.Title)}
	items := make([]*gofeed.Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it != nil && it.Title != "" {
			items = append(items, it)
		}
	}
	// Newest first; undated items keep feed order.
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := itemTime(items[i]), itemTime(items[j])
		if ti == nil || tj == nil {
			return false
		}
		return ti.After(*tj)
	})
	if len(items) > 0 {
		snap.Detail = truncate(collapse(items[0].Title), maxDetail)
		snap.Status = ClassifyStatus(items[0].Title + " " + items[0].Description)
	}
	return snap, nil
}

func itemTime(it *gofeed.Item) *time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed
	}
	return it.UpdatedParsed
}

func decodeJSON(body []byte) (Snapshot, error) {
	var raw struct {
		Color   string   `json:"color"`
		Colour  string   `json:"colour"`
		Red     *float64 `json:"red"`
		Green   *float64 `json:"green"`
		Blue    *float64 `json:"blue"`
		Status  string   `json:"status"`
		Title   string   `json:"title"`
		Name    string   `json:"name"`
		Message string   `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("decoding json: %w", err)
	}

	snap := Snapshot{
		Title:  raw.Title,
		Detail: truncate(collapse(raw.Message), maxDetail),
	}
	if snap.Title == "" {
		snap.Title = raw.Name
	}
	if raw.Status != "" {
		snap.Status = ClassifyStatus(raw.Status)
		if snap.Detail == "" {
			snap.Detail = raw.Status
		}
	}

	switch {
	case raw.Color != "" || raw.Colour != "":
		v := raw.Color
		if v == "" {
			v = raw.Colour
		}
		snap.Colour, snap.HasColour = ParseColour(v)
	case raw.Red != nil && raw.Green != nil && raw.Blue != nil:
		snap.Colour, snap.HasColour = colourFromRGB(*raw.Red, *raw.Green, *raw.Blue), true
	}
	return snap, nil
}

func decodeText(body []byte) Snapshot {
	text := collapse(string(body))
	snap := Snapshot{Detail: truncate(text, maxDetail)}
	snap.Colour, snap.HasColour = ParseColour(text)
	return snap
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
