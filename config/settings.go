package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds process-level options. They are separate from Config,
// which only describes the grid and comes from the page query.
type Settings struct {
	Query          string `mapstructure:"query"`
	FetchTimeout   int    `mapstructure:"fetch_timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
	JitterBaseMS   int    `mapstructure:"jitter_base_ms"`
	JitterSpreadMS int    `mapstructure:"jitter_spread_ms"`
	MaxTiles       int    `mapstructure:"max_tiles"`
	ShowVersion    bool   `mapstructure:"version"`
}

// FetchTimeoutDuration returns the per-load timeout.
func (s *Settings) FetchTimeoutDuration() time.Duration {
	return time.Duration(s.FetchTimeout) * time.Second
}

// Level returns the configured slog level.
func (s *Settings) Level() slog.Level {
	var lvl slog.Level
	// Load has already validated the value.
	_ = lvl.UnmarshalText([]byte(s.LogLevel))
	return lvl
}

// ConfigPath returns the default settings file location.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "colorgrid", "config.yaml"), nil
}

// ConfigExists reports whether a settings file is present at path.
func ConfigExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Load resolves settings from flags, COLORGRID_* environment variables and
// an optional config file, in that order of precedence. It returns the
// positional arguments left after flag parsing.
func Load(args []string) (*Settings, []string, error) {
	fs := pflag.NewFlagSet("colorgrid", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default ~/.config/colorgrid/config.yaml)")
	fs.String("query", "", "page query used when no address argument is given")
	fs.Int("fetch-timeout-seconds", 10, "timeout for a single content load")
	fs.String("user-agent", "colorgrid/1.0", "User-Agent sent with content loads")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-file", "", "write logs to this file (default: discard)")
	fs.Int("jitter-base-ms", 3800, "shortest tile refresh interval")
	fs.Int("jitter-spread-ms", 500, "width of the random refresh interval window")
	fs.Int("max-tiles", DefaultMaxTiles, "upper bound on the tile count, 0 for none")
	fs.BoolP("version", "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("colorgrid")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Flags use dashes, the file and env use underscores.
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		_ = v.BindPFlag(key, f)
	})

	cfgFile, _ := fs.GetString("config")
	if cfgFile == "" {
		if p, err := ConfigPath(); err == nil && ConfigExists(p) {
			cfgFile = p
		}
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, nil, err
	}

	return &s, fs.Args(), nil
}

func (s *Settings) validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	if s.FetchTimeout <= 0 {
		return fmt.Errorf("invalid fetch_timeout_seconds %d: %w", s.FetchTimeout, errNotPositive)
	}
	if s.JitterBaseMS <= 0 {
		return fmt.Errorf("invalid jitter_base_ms %d: %w", s.JitterBaseMS, errNotPositive)
	}
	if s.JitterSpreadMS < 0 {
		return fmt.Errorf("invalid jitter_spread_ms %d: must not be negative", s.JitterSpreadMS)
	}
	if s.MaxTiles < 0 {
		return fmt.Errorf("invalid max_tiles %d: must not be negative", s.MaxTiles)
	}
	return nil
}

var errNotPositive = errors.New("must be positive")
