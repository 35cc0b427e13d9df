// Package config handles Aria configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultConfirmationTTLSecs is how long a pending confirmation stays
// answerable before it expires.
const DefaultConfirmationTTLSecs = 45

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".aria")

	return &Config{
		User: UserConfig{
			Name:     "",
			Timezone: "UTC",
			Language: "en",
		},
		Autonomy: AutonomyConfig{
			Mode:                "normal",
			ConfirmSensitive:    true,
			ConfirmationTTLSecs: DefaultConfirmationTTLSecs,
			MaxReprompts:        2,
		},
		LLM: LLMConfig{
			Provider: "openrouter",
			Model:    "deepseek/deepseek-r1",
			Enabled:  false,
		},
		Paths: PathsConfig{
			DataDir:   dataDir,
			LogsDir:   filepath.Join(dataDir, "logs"),
			SessionDB: filepath.Join(dataDir, "session.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return expandPaths(cfg), nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

func (c *Config) validate() error {
	switch c.Autonomy.Mode {
	case "off", "low", "normal", "high":
	default:
		return fmt.Errorf("config: unknown autonomy mode %q", c.Autonomy.Mode)
	}
	if c.Autonomy.ConfirmationTTLSecs <= 0 {
		c.Autonomy.ConfirmationTTLSecs = DefaultConfirmationTTLSecs
	}
	if c.Autonomy.MaxReprompts < 0 {
		c.Autonomy.MaxReprompts = 0
	}
	return nil
}

// expandPaths expands a leading ~ in configured paths.
func expandPaths(cfg *Config) *Config {
	homeDir, _ := os.UserHomeDir()

	expand := func(p string) string {
		if p != "" && p[0] == '~' {
			return filepath.Join(homeDir, p[1:])
		}
		return p
	}
	cfg.Paths.DataDir = expand(cfg.Paths.DataDir)
	cfg.Paths.LogsDir = expand(cfg.Paths.LogsDir)
	cfg.Paths.SessionDB = expand(cfg.Paths.SessionDB)
	return cfg
}

// SessionDBPath returns the path to the session database.
func (c *Config) SessionDBPath() string {
	return c.Paths.SessionDB
}
