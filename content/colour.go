package content

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var rgbFunc = regexp.MustCompile(`(?i)^rgba?\(\s*([0-9.]+%?)\s*[, ]\s*([0-9.]+%?)\s*[, ]\s*([0-9.]+%?)`)

// Basic CSS names, enough for the usual status pages.
var namedColours = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"orange":  "#ffa500",
	"yellow":  "#ffff00",
	"green":   "#008000",
	"lime":    "#00ff00",
	"cyan":    "#00ffff",
	"aqua":    "#00ffff",
	"blue":    "#0000ff",
	"navy":    "#000080",
	"teal":    "#008080",
	"purple":  "#800080",
	"violet":  "#ee82ee",
	"magenta": "#ff00ff",
	"fuchsia": "#ff00ff",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
	"maroon":  "#800000",
	"olive":   "#808000",
	"gold":    "#ffd700",
	"indigo":  "#4b0082",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
}

// ParseColour parses a CSS colour value: #rgb, #rrggbb, rgb(), rgba() or a
// basic colour name. Trailing declarations such as "!important" are ignored.
func ParseColour(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "!important"))
	if s == "" {
		return colorful.Color{}, false
	}

	if hex, ok := namedColours[s]; ok {
		s = hex
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}

	if m := rgbFunc.FindStringSubmatch(s); m != nil {
		var ch [3]float64
		for i := range ch {
			v, ok := channel(m[i+1])
			if !ok {
				return colorful.Color{}, false
			}
			ch[i] = v
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Clamped(), true
	}

	return colorful.Color{}, false
}

// channel converts "255" or "100%" to [0, 1].
func channel(s string) (float64, bool) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, false
		}
		return v / 100, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v / 255, true
}

// colourFromRGB builds a colour from 0-255 channel values.
func colourFromRGB(r, g, b float64) colorful.Color {
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Clamped()
}
