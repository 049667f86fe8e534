package config

import (
	"strings"
	"time"
)

// UIConfig holds terminal interface configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `yaml:"theme" json:"theme,omitempty"`

	// SidebarWidth is the contact sidebar's width in cells (0 = automatic).
	SidebarWidth int `yaml:"sidebar_width,omitempty" json:"sidebar_width,omitempty"`

	// ResizeDebounce delays re-wrapping after a terminal resize.
	ResizeDebounce string `yaml:"resize_debounce,omitempty" json:"resize_debounce,omitempty"`

	// TimeFormat is the Go layout used for message timestamps.
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		Theme:          "auto",
		SidebarWidth:   0,
		ResizeDebounce: "150ms",
		TimeFormat:     "15:04",
	}
}

// IsValidTheme reports whether name is a known theme.
func IsValidTheme(name string) bool {
	switch strings.ToLower(name) {
	case "auto", "dark", "light":
		return true
	}
	return false
}

// GetResizeDebounce returns the resize debounce as a duration.
func (c *Config) GetResizeDebounce() time.Duration {
	return parseDuration(c.UI.ResizeDebounce, 150*time.Millisecond)
}

// GetTimeFormat returns the timestamp layout.
func (c *Config) GetTimeFormat() string {
	if c.UI.TimeFormat == "" {
		return "15:04"
	}
	return c.UI.TimeFormat
}
