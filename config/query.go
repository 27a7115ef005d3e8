package config

import "strings"

const (
	// DefaultTileCount is used when the query has no count parameter.
	DefaultTileCount = 10
	// FallbackTileCount replaces a count that is not a usable integer.
	FallbackTileCount = 0
	// DefaultMaxTiles is the default of the max_tiles setting.
	DefaultMaxTiles = 1000
)

// Config is the page configuration read from the query string.
// It is built once per run and never mutated.
type Config struct {
	SourceURL string
	TileCount int
}

// Read extracts the page configuration from a query string. A leading "?"
// is optional. Read never fails: malformed input resolves to defaults.
func Read(query string) Config {
	values := parseQuery(strings.TrimPrefix(query, "?"))

	cfg := Config{
		SourceURL: first(values, "url"),
		TileCount: DefaultTileCount,
	}
	if v, ok := values["count"]; ok {
		cfg.TileCount = parseCount(v[0])
	}
	return cfg
}

// FromAddress reads the configuration from a full page address such as
// "http://viewer.local/?url=http://colors.local&count=25". A bare query
// string is accepted as well, including one whose values contain "?".
func FromAddress(addr string) Config {
	addr = strings.TrimSpace(addr)
	switch {
	case strings.HasPrefix(addr, "?"):
		addr = addr[1:]
	case isAddress(addr):
		i := strings.IndexByte(addr, '?')
		if i < 0 {
			return Read("")
		}
		addr = addr[i+1:]
	}
	if i := strings.IndexByte(addr, '#'); i >= 0 {
		addr = addr[:i]
	}
	return Read(addr)
}

// Clamp caps the tile count at limit and reports whether it did. A limit of
// zero or less leaves c unchanged.
func (c Config) Clamp(limit int) (Config, bool) {
	if limit <= 0 || c.TileCount <= limit {
		return c, false
	}
	c.TileCount = limit
	return c, true
}

// isAddress reports whether s starts with a scheme, i.e. "://" appears
// before the first "=".
func isAddress(s string) bool {
	i := strings.Index(s, "://")
	if i < 0 {
		return false
	}
	eq := strings.IndexByte(s, '=')
	return eq < 0 || i < eq
}

// parseQuery splits a query the way browsers do: on "&" then the first
// "=". Unlike url.ParseQuery it never drops a pair; ";" is literal and
// bad escapes are kept as written.
func parseQuery(query string) map[string][]string {
	values := make(map[string][]string)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		k = unescape(k)
		values[k] = append(values[k], unescape(v))
	}
	return values
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// unescape decodes "+" and valid %XX escapes, leaving anything else as is.
func unescape(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(byte(digitValue(s[i+1])<<4 | digitValue(s[i+2])))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return digitValue(c) >= 0
}

func parseCount(s string) int {
	n, ok := parseLeadingInt(s)
	if !ok || n < 0 {
		return FallbackTileCount
	}
	return n
}

// parseLeadingInt parses the integer prefix of s the way browsers parse
// integers out of form values: leading whitespace is skipped, an optional
// sign and "0x" prefix are honoured, and parsing stops at the first
// character that is not a digit. ok is false when no digit was found or the
// value does not fit in an int.
func parseLeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v\u00a0\ufeff")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	const maxInt = int(^uint(0) >> 1)
	digits := 0
	for _, c := range []byte(s) {
		d := digitValue(c)
		if d < 0 || d >= base {
			break
		}
		if n > (maxInt-d)/base {
			return 0, false
		}
		n = n*base + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
