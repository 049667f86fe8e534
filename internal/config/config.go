package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// DefaultPath is where the config file lives relative to the working directory.
const DefaultPath = ".supportchat/config.yaml"

// Config holds all supportchat configuration.
type Config struct {
	Name string `yaml:"name"`

	// Conversation behaviour
	Chat ChatConfig `yaml:"chat"`

	// Navigation and deferred module loading
	Routes RoutesConfig `yaml:"routes"`

	// Sidebar directory
	Contacts []ContactConfig `yaml:"contacts"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ChatConfig configures the live conversation.
type ChatConfig struct {
	ReplyDelay string `yaml:"reply_delay"`
	ReplyText  string `yaml:"reply_text"`
	// SeedDemo preloads the three-message demo history.
	SeedDemo bool `yaml:"seed_demo"`
	// IDScheme is "uuid" or "sequence".
	IDScheme string `yaml:"id_scheme"`
}

// RoutesConfig configures navigation.
type RoutesConfig struct {
	InitialPath string `yaml:"initial_path"`
	ShellDelay  string `yaml:"shell_delay"`
	PageDelay   string `yaml:"page_delay"`
}

// ContactConfig is one sidebar entry.
type ContactConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Presence string `yaml:"presence"`
	Preview  string `yaml:"preview,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "supportchat",

		Chat: ChatConfig{
			ReplyDelay: "1s",
			ReplyText:  "Thanks for your message. I'll get back to you soon.",
			SeedDemo:   true,
			IDScheme:   "uuid",
		},

		Routes: RoutesConfig{
			InitialPath: "/",
			ShellDelay:  "1500ms",
			PageDelay:   "0s",
		},

		Contacts: []ContactConfig{
			{ID: "support", Name: "Technical Support", Presence: "online", Preview: "Last message..."},
		},

		UI: DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SUPPORTCHAT_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SUPPORTCHAT_REPLY_DELAY"); v != "" {
		c.Chat.ReplyDelay = v
	}
	if v := os.Getenv("SUPPORTCHAT_REPLY_TEXT"); v != "" {
		c.Chat.ReplyText = v
	}
	if v := os.Getenv("SUPPORTCHAT_SEED_DEMO"); v != "" {
		c.Chat.SeedDemo = parseBool(v, c.Chat.SeedDemo)
	}
	if v := os.Getenv("SUPPORTCHAT_INITIAL_PATH"); v != "" {
		c.Routes.InitialPath = v
	}
	if v := os.Getenv("SUPPORTCHAT_SHELL_DELAY"); v != "" {
		c.Routes.ShellDelay = v
	}
	if v := os.Getenv("SUPPORTCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SUPPORTCHAT_DEBUG"); v != "" {
		c.Logging.DebugMode = parseBool(v, c.Logging.DebugMode)
	}
	if v := os.Getenv("SUPPORTCHAT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// GetReplyDelay returns the reply delay as a duration.
func (c *Config) GetReplyDelay() time.Duration {
	return parseDuration(c.Chat.ReplyDelay, time.Second)
}

// GetShellDelay returns the workspace shell's artificial load delay.
func (c *Config) GetShellDelay() time.Duration {
	return parseDuration(c.Routes.ShellDelay, 1500*time.Millisecond)
}

// GetPageDelay returns the conversation page's load delay.
func (c *Config) GetPageDelay() time.Duration {
	return parseDuration(c.Routes.PageDelay, 0)
}

// ValidIDSchemes lists the supported message id generators.
var ValidIDSchemes = []string{"uuid", "sequence"}

// Validate validates the configuration. Every error wraps ErrInvalid.
func (c *Config) Validate() error {
	durations := map[string]string{
		"chat.reply_delay":   c.Chat.ReplyDelay,
		"routes.shell_delay": c.Routes.ShellDelay,
		"routes.page_delay":  c.Routes.PageDelay,
	}
	for _, key := range []string{"chat.reply_delay", "routes.shell_delay", "routes.page_delay"} {
		raw := durations[key]
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, key)
		}
	}

	if c.Chat.IDScheme != "" {
		valid := false
		for _, s := range ValidIDSchemes {
			if c.Chat.IDScheme == s {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: chat.id_scheme %q (valid: %v)", ErrInvalid, c.Chat.IDScheme, ValidIDSchemes)
		}
	}

	seen := make(map[string]bool, len(c.Contacts))
	for i, ct := range c.Contacts {
		if strings.TrimSpace(ct.ID) == "" {
			return fmt.Errorf("%w: contacts[%d] has no id", ErrInvalid, i)
		}
		if seen[ct.ID] {
			return fmt.Errorf("%w: duplicate contact id %q", ErrInvalid, ct.ID)
		}
		seen[ct.ID] = true
	}

	if c.UI.Theme != "" && !IsValidTheme(c.UI.Theme) {
		return fmt.Errorf("%w: ui.theme %q", ErrInvalid, c.UI.Theme)
	}

	return nil
}
