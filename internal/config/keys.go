package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// ErrUnknownKey is returned by Get and Set for keys that are not settings.
var ErrUnknownKey = errors.New("unknown config key")

// field binds one dot-notation key to its Config field.
type field struct {
	key    string
	secret bool
	get    func(*Config) any
	set    func(*Config, string) error
}

func stringField(key string, secret bool, ptr func(*Config) *string) field {
	return field{
		key:    key,
		secret: secret,
		get:    func(c *Config) any { return *ptr(c) },
		set: func(c *Config, s string) error {
			*ptr(c) = s
			return nil
		},
	}
}

func boolField(key string, ptr func(*Config) *bool) field {
	return field{
		key: key,
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, s string) error {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*ptr(c) = b
			return nil
		},
	}
}

func intField(key string, ptr func(*Config) *int) field {
	return field{
		key: key,
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func durationField(key string, ptr func(*Config) *time.Duration) field {
	return field{
		key: key,
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, s string) error {
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*ptr(c) = d
			return nil
		},
	}
}

var fields = []field{
	stringField("providers.openai.api_key", true, func(c *Config) *string { return &c.Providers.OpenAI.APIKey }),
	stringField("providers.openai.base_url", false, func(c *Config) *string { return &c.Providers.OpenAI.BaseURL }),
	stringField("providers.claude.api_key", true, func(c *Config) *string { return &c.Providers.Claude.APIKey }),
	stringField("providers.claude.base_url", false, func(c *Config) *string { return &c.Providers.Claude.BaseURL }),
	boolField("providers.claude.use_bedrock", func(c *Config) *bool { return &c.Providers.Claude.UseBedrock }),
	stringField("providers.claude.aws_region", false, func(c *Config) *string { return &c.Providers.Claude.AWSRegion }),
	stringField("providers.claude.aws_profile", false, func(c *Config) *string { return &c.Providers.Claude.AWSProfile }),
	stringField("providers.gemini.api_key", true, func(c *Config) *string { return &c.Providers.Gemini.APIKey }),
	stringField("providers.gemini.base_url", false, func(c *Config) *string { return &c.Providers.Gemini.BaseURL }),
	stringField("providers.local.base_url", false, func(c *Config) *string { return &c.Providers.Local.BaseURL }),
	{
		key: "providers.local.min_confidence",
		get: func(c *Config) any { return c.Providers.Local.MinConfidence },
		set: func(c *Config, s string) error {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("providers.local.min_confidence: %q is not between 0 and 1", s)
			}
			c.Providers.Local.MinConfidence = f
			return nil
		},
	},
	boolField("runner.use_mock", func(c *Config) *bool { return &c.Runner.UseMock }),
	intField("runner.max_parallel", func(c *Config) *int { return &c.Runner.MaxParallel }),
	durationField("runner.request_timeout", func(c *Config) *time.Duration { return &c.Runner.RequestTimeout }),
	intField("runner.retry.max_attempts", func(c *Config) *int { return &c.Runner.Retry.MaxAttempts }),
	durationField("runner.retry.base_delay", func(c *Config) *time.Duration { return &c.Runner.Retry.BaseDelay }),
	stringField("credentials.file", false, func(c *Config) *string { return &c.Credentials.File }),
	stringField("credentials.dotenv", false, func(c *Config) *string { return &c.Credentials.Dotenv }),
	boolField("history.enabled", func(c *Config) *bool { return &c.History.Enabled }),
	stringField("history.path", false, func(c *Config) *string { return &c.History.Path }),
	stringField("server.addr", false, func(c *Config) *string { return &c.Server.Addr }),
	enumField("defaults.mode", func(c *Config) *string { return &c.Defaults.Mode }, func(s string) (string, error) {
		m, err := models.ParseMode(s)
		return string(m), err
	}),
	enumField("defaults.intent", func(c *Config) *string { return &c.Defaults.Intent }, func(s string) (string, error) {
		i, err := models.ParseIntent(s)
		return string(i), err
	}),
	enumField("defaults.tone", func(c *Config) *string { return &c.Defaults.Tone }, func(s string) (string, error) {
		t, err := models.ParseTone(s)
		return string(t), err
	}),
	enumField("defaults.tier", func(c *Config) *string { return &c.Defaults.Tier }, func(s string) (string, error) {
		t, err := models.ParseTier(s)
		return string(t), err
	}),
	enumField("defaults.provider", func(c *Config) *string { return &c.Defaults.Provider }, func(s string) (string, error) {
		p, err := models.ParseProvider(s)
		return string(p), err
	}),
	{
		key: "defaults.languages",
		get: func(c *Config) any { return c.Defaults.Languages },
		set: func(c *Config, s string) error {
			codes := splitList(s)
			langs, err := models.ParseLanguages(codes)
			if err != nil {
				return err
			}
			c.Defaults.Languages = make([]string, len(langs))
			for i, l := range langs {
				c.Defaults.Languages[i] = l.ID
			}
			return nil
		},
	},
}

func enumField(key string, ptr func(*Config) *string, parse func(string) (string, error)) field {
	return field{
		key: key,
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, s string) error {
			v, err := parse(s)
			if err != nil {
				return err
			}
			*ptr(c) = v
			return nil
		},
	}
}

func lookup(key string) (field, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

// Keys returns every settable key in file order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// IsSecret returns true if the key holds a credential.
func IsSecret(key string) bool {
	f, ok := lookup(key)
	return ok && f.secret
}

// Get returns the value of a dot-notation key as a string.
func (c *Config) Get(key string) (string, error) {
	f, ok := lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return format(f.get(c)), nil
}

// Display returns the value of key for printing, masking secrets.
func (c *Config) Display(key string) (string, error) {
	val, err := c.Get(key)
	if err != nil {
		return "", err
	}
	if IsSecret(key) {
		return MaskAPIKey(val), nil
	}
	return val, nil
}

// Set parses value and assigns it to the dot-notation key.
func (c *Config) Set(key, value string) error {
	f, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.set(c, strings.TrimSpace(value))
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case time.Duration:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// APIKeys returns the keys set in configuration, by provider. Blank and
// unexpanded ${VAR} values are omitted.
func (c *Config) APIKeys() map[models.Provider]string {
	keys := map[models.Provider]string{}
	add := func(p models.Provider, key string) {
		key = strings.TrimSpace(key)
		if key != "" && !strings.HasPrefix(key, "${") {
			keys[p] = key
		}
	}
	add(models.ProviderOpenAI, c.Providers.OpenAI.APIKey)
	add(models.ProviderClaude, c.Providers.Claude.APIKey)
	add(models.ProviderGemini, c.Providers.Gemini.APIKey)
	return keys
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAPIKeySource returns where the API key for p was sourced from.
func GetAPIKeySource(cfg *Config, p models.Provider) KeySource {
	for key, env := range envBindings {
		if !strings.HasPrefix(key, "providers."+string(p)+".") {
			continue
		}
		if os.Getenv(env) != "" {
			return KeySourceEnv
		}
	}

	if cfg != nil {
		if _, ok := cfg.APIKeys()[p]; ok {
			return KeySourceConfig
		}
	}

	return KeySourceNone
}
