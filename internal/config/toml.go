package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sadopc/remmeter/internal/display"
)

// LangEnv selects the UI language when --lang is not given.
const LangEnv = "TIMER_LANG"

// DefaultLang is used when neither flag, environment nor file sets one.
const DefaultLang = "en-US"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Lang     *string         `toml:"lang"`
	Input    InputConfig     `toml:"input"`
	Timer    TimerConfig     `toml:"timer"`
	Notify   NotifyConfig    `toml:"notify"`
	Log      LogConfig       `toml:"log"`
	Displays []DisplayConfig `toml:"display"`
}

// InputConfig maps time-input parsing settings.
type InputConfig struct {
	MaxMinutes *int    `toml:"max-minutes"`
	MaxSeconds *int    `toml:"max-seconds"`
	Overflow   *string `toml:"overflow"`
	Clamp      *string `toml:"clamp"`
	MaxTotal   *int    `toml:"max-total"`
}

// TimerConfig maps countdown settings.
type TimerConfig struct {
	Warning  *float64 `toml:"warning"`
	Danger   *float64 `toml:"danger"`
	Position *string  `toml:"position"`
}

// NotifyConfig maps completion notification settings.
type NotifyConfig struct {
	Enabled      *bool     `toml:"enabled"`
	CleanupDelay *Duration `toml:"cleanup-delay"`
}

type LogConfig struct {
	Level *string `toml:"level"`
}

// DisplayConfig is one statically configured monitor.
type DisplayConfig struct {
	Left    float64 `toml:"left"`
	Top     float64 `toml:"top"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Scale   float64 `toml:"scale"`
	Primary bool    `toml:"primary"`
}

// Duration decodes TOML strings such as "6s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("duration must not be negative, got %s", v)
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Display converts a configured monitor. A zero scale means 1.
func (d DisplayConfig) Display() display.Display {
	scale := d.Scale
	if scale <= 0 {
		scale = 1
	}
	return display.Display{
		Left:    d.Left,
		Top:     d.Top,
		Width:   d.Width,
		Height:  d.Height,
		ScaleX:  scale,
		ScaleY:  scale,
		Primary: d.Primary,
	}
}

// StaticDisplays returns the configured monitors, or nil when none are set.
func (c FileConfig) StaticDisplays() display.Static {
	if len(c.Displays) == 0 {
		return nil
	}
	out := make(display.Static, len(c.Displays))
	for i, d := range c.Displays {
		out[i] = d.Display()
	}
	return out
}

// ResolveLang picks the UI language: an explicit flag, then $TIMER_LANG,
// then the config file, then DefaultLang.
func ResolveLang(flagValue string, flagSet bool, fileValue *string) string {
	if flagSet && strings.TrimSpace(flagValue) != "" {
		return strings.TrimSpace(flagValue)
	}
	if v := strings.TrimSpace(os.Getenv(LangEnv)); v != "" {
		return v
	}
	if fileValue != nil && strings.TrimSpace(*fileValue) != "" {
		return strings.TrimSpace(*fileValue)
	}
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return DefaultLang
}

// DefaultTemplate is written by `remmeter config` when no file exists.
func DefaultTemplate() string {
	return `# remmeter configuration
# Uncomment a value to enable it. CLI flags override config values.

# lang = "en-US"            # en-US, ja-JP, zh-CN or zh-TW ($TIMER_LANG also works)

[input]
# max-minutes = 99          # Upper bound for minutes
# max-seconds = 99          # Upper bound for seconds
# overflow = "normalize"    # "normalize" reads 90 as 1:30, "literal" keeps 0:90
# clamp = "joint"           # "joint" pins both fields at the cap, "independent" clamps each
# max-total = 0             # Reject durations longer than this many seconds (0 = no limit)

[timer]
# warning = 0.6             # Progress fraction where the bar turns orange
# danger = 0.8              # Progress fraction where the bar turns red and blinks
# position = "Right"        # Right, Left, Top or Bottom

[notify]
# enabled = true            # Desktop notification; false shows the in-app message only
# cleanup-delay = "6s"      # Release the notification after this long

[log]
# level = "info"            # debug, info, warn or error

# [[display]]               # Static monitors for "remmeter layout"
# width = 1920
# height = 1080
# scale = 1.0
# primary = true
`
}
