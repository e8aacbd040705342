// Package config handles configuration loading and management for linguist.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for linguist.
type Config struct {
	Providers   ProvidersConfig   `mapstructure:"providers"`
	Runner      RunnerConfig      `mapstructure:"runner"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	History     HistoryConfig     `mapstructure:"history"`
	Server      ServerConfig      `mapstructure:"server"`
	Defaults    DefaultsConfig    `mapstructure:"defaults"`
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	OpenAI APIConfig    `mapstructure:"openai"`
	Claude ClaudeConfig `mapstructure:"claude"`
	Gemini APIConfig    `mapstructure:"gemini"`
	Local  LocalConfig  `mapstructure:"local"`
}

// APIConfig holds settings for a key-authenticated HTTP provider.
type APIConfig struct {
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the vendor endpoint. Empty uses the vendor default.
	BaseURL string `mapstructure:"base_url"`
}

// ClaudeConfig holds Anthropic settings, including the Bedrock route.
type ClaudeConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// LocalConfig holds settings for the local translation backend.
type LocalConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// MinConfidence is the detection confidence below which a source
	// language is treated as unknown. Zero defers to the detector.
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// RunnerConfig holds orchestration settings.
type RunnerConfig struct {
	UseMock        bool          `mapstructure:"use_mock"`
	MaxParallel    int           `mapstructure:"max_parallel"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Retry          RetryConfig   `mapstructure:"retry"`
}

// RetryConfig holds the transport retry policy.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

// CredentialsConfig names extra credential sources.
type CredentialsConfig struct {
	File   string `mapstructure:"file"`
	Dotenv string `mapstructure:"dotenv"`
}

// HistoryConfig holds history store settings.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path is the database file. Empty uses the XDG data directory.
	Path string `mapstructure:"path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultsConfig holds default task settings used when flags are omitted.
type DefaultsConfig struct {
	Mode      string   `mapstructure:"mode"`
	Intent    string   `mapstructure:"intent"`
	Tone      string   `mapstructure:"tone"`
	Tier      string   `mapstructure:"tier"`
	Provider  string   `mapstructure:"provider"`
	Languages []string `mapstructure:"languages"`
}

// envBindings maps config keys to the conventional vendor variable names.
var envBindings = map[string]string{
	"providers.openai.api_key": "OPENAI_API_KEY",
	"providers.claude.api_key": "ANTHROPIC_API_KEY",
	"providers.gemini.api_key": "GEMINI_API_KEY",
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, LINGUIST_*)
// 2. Project config (.linguist.yaml in current directory or parent)
// 3. User config (~/.config/linguist/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	bindEnv(v)

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	return SaveToPath(cfg, GetUserConfigPath())
}

// SaveToPath writes the configuration to path, creating its directory.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for _, f := range fields {
		val := f.get(cfg)
		if d, ok := val.(time.Duration); ok {
			val = d.String()
		}
		v.Set(f.key, val)
	}

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("LINGUIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Providers.OpenAI.APIKey = expandEnv(cfg.Providers.OpenAI.APIKey)
	cfg.Providers.Claude.APIKey = expandEnv(cfg.Providers.Claude.APIKey)
	cfg.Providers.Gemini.APIKey = expandEnv(cfg.Providers.Gemini.APIKey)
	cfg.Credentials.File = expandEnv(cfg.Credentials.File)
	cfg.History.Path = expandEnv(cfg.History.Path)

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "")
	v.SetDefault("providers.claude.api_key", "")
	v.SetDefault("providers.claude.base_url", "")
	v.SetDefault("providers.claude.use_bedrock", false)
	v.SetDefault("providers.claude.aws_region", "")
	v.SetDefault("providers.claude.aws_profile", "")
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.base_url", "")
	v.SetDefault("providers.local.base_url", d.Providers.Local.BaseURL)
	v.SetDefault("providers.local.min_confidence", d.Providers.Local.MinConfidence)

	v.SetDefault("runner.use_mock", false)
	v.SetDefault("runner.max_parallel", d.Runner.MaxParallel)
	v.SetDefault("runner.request_timeout", d.Runner.RequestTimeout.String())
	v.SetDefault("runner.retry.max_attempts", d.Runner.Retry.MaxAttempts)
	v.SetDefault("runner.retry.base_delay", d.Runner.Retry.BaseDelay.String())

	v.SetDefault("credentials.file", "")
	v.SetDefault("credentials.dotenv", d.Credentials.Dotenv)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("server.addr", d.Server.Addr)

	v.SetDefault("defaults.mode", d.Defaults.Mode)
	v.SetDefault("defaults.intent", d.Defaults.Intent)
	v.SetDefault("defaults.tone", d.Defaults.Tone)
	v.SetDefault("defaults.tier", d.Defaults.Tier)
	v.SetDefault("defaults.provider", d.Defaults.Provider)
	v.SetDefault("defaults.languages", d.Defaults.Languages)
}

// getUserConfigDir returns the XDG config directory for linguist.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "linguist")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "linguist")
	}
	return filepath.Join(home, ".config", "linguist")
}

// findProjectConfig searches for .linguist.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".linguist.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Local: LocalConfig{
				BaseURL: "http://127.0.0.1:5000",
			},
		},
		Runner: RunnerConfig{
			MaxParallel:    4,
			RequestTimeout: 60 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 2,
				BaseDelay:   400 * time.Millisecond,
			},
		},
		Credentials: CredentialsConfig{
			Dotenv: ".env",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8088",
		},
		Defaults: DefaultsConfig{
			Mode:      "translate",
			Intent:    "plain",
			Tone:      "neutral",
			Tier:      "balanced",
			Provider:  "auto",
			Languages: []string{"pt", "en", "de"},
		},
	}
}
