package ui

import (
	"strings"

	"colorgrid/content"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Color palette, dark terminal friendly
var (
	colorBg     = lipgloss.Color("#0d1117")
	colorBorder = lipgloss.Color("#30363d")
	colorAccent = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorOrange = lipgloss.Color("#db6d28")
	colorYellow = lipgloss.Color("#e3b341")
	colorMuted  = lipgloss.Color("#8b949e")
	colorWhite  = lipgloss.Color("#e6edf3")
	colorBlack  = lipgloss.Color("#0d1117")

	bgTileIdle   = lipgloss.Color("#1c2128")
	bgTileFailed = lipgloss.Color("#3d1d1d")
)

// rainbowStops is the gradient of the title bar.
var rainbowStops = []string{"#ff0000", "#ffa500", "#ffff00", "#008000", "#00ffff", "#0000ff", "#ee82ee"}

var (
	// Layout
	StyleHeader = lipgloss.NewStyle().
			Background(colorBg).
			Foreground(colorWhite).
			Padding(0, 1)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(colorMuted)

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	StyleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorBg).
			Padding(0, 1)

	StyleLink = lipgloss.NewStyle().
			Foreground(colorAccent).
			Underline(true)

	StyleError = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	StyleSpinner = lipgloss.NewStyle().
			Foreground(colorAccent)

	StyleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	StyleAccent = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// Tiles
	StyleTile = lipgloss.NewStyle().
			Width(tileWidth).
			Height(tileHeight).
			Padding(0, 1)

	StyleTileIndex = lipgloss.NewStyle().
			Bold(true)

	// Prompt
	StylePromptTitle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	StylePrompt = lipgloss.NewStyle().
			Foreground(colorWhite)

	StyleHint = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	StylePromptPane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
)

func statusColor(s content.Status) lipgloss.Color {
	switch s {
	case content.StatusFailed:
		return colorRed
	case content.StatusDegraded:
		return colorOrange
	case content.StatusProgressing:
		return colorYellow
	case content.StatusHealthy:
		return colorGreen
	default:
		return bgTileIdle
	}
}

// contrastText picks black or white text for a background.
func contrastText(bg colorful.Color) lipgloss.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorBlack
	}
	return colorWhite
}

func toColorful(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return col
}

// rainbow renders s with a left-to-right gradient across rainbowStops.
func rainbow(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	stops := make([]colorful.Color, 0, len(rainbowStops))
	for _, h := range rainbowStops {
		c, _ := colorful.Hex(h)
		stops = append(stops, c)
	}

	var sb strings.Builder
	for i, r := range runes {
		pos := 0.0
		if len(runes) > 1 {
			pos = float64(i) / float64(len(runes)-1) * float64(len(stops)-1)
		}
		lo := int(pos)
		if lo >= len(stops)-1 {
			lo = len(stops) - 2
		}
		c := stops[lo].BlendHcl(stops[lo+1], pos-float64(lo)).Clamped()
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return sb.String()
}
