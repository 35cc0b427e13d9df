// Package config provides configuration types for Aria.
package config

// Config represents the main Aria configuration.
type Config struct {
	User     UserConfig     `toml:"user"`
	Autonomy AutonomyConfig `toml:"autonomy"`
	LLM      LLMConfig      `toml:"llm"`
	Paths    PathsConfig    `toml:"paths"`
	Logging  LoggingConfig  `toml:"logging"`
}

// UserConfig contains user preferences.
type UserConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"`
	Language string `toml:"language"`
}

// AutonomyConfig governs when the assistant acts without asking.
type AutonomyConfig struct {
	Mode                string `toml:"mode"` // off, low, normal, high
	ConfirmSensitive    bool   `toml:"confirm_sensitive"`
	ConfirmationTTLSecs int    `toml:"confirmation_ttl_secs"`
	// MaxReprompts bounds how many times an ignored confirmation is
	// re-asked before being dropped. Zero keeps re-asking forever.
	MaxReprompts int `toml:"max_reprompts"`
}

// LLMConfig configures the fallback language model used for
// utterances the deterministic rules cannot route.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	Enabled  bool   `toml:"enabled"`
}

// PathsConfig contains file path settings.
type PathsConfig struct {
	DataDir   string `toml:"data_dir"`
	LogsDir   string `toml:"logs_dir"`
	SessionDB string `toml:"session_db"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console, json
}
