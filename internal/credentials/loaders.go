package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvLoader returns a Loader that reads the specified environment variables.
// Missing variables are silently omitted from the result map.
func EnvLoader(keys ...string) Loader {
	return func() (map[string]string, error) {
		vals := make(map[string]string, len(keys))
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				vals[k] = v
			}
		}
		return vals, nil
	}
}

// DotenvLoader reads keys from a .env file. A missing file yields no values.
func DotenvLoader(path string, keys ...string) Loader {
	return func() (map[string]string, error) {
		if path == "" {
			return map[string]string{}, nil
		}
		env, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return map[string]string{}, nil
			}
			return nil, fmt.Errorf("read dotenv %s: %w", path, err)
		}
		return pick(env, keys), nil
	}
}

// FileLoader reads keys from a flat YAML mapping, for example:
//
//	OPENAI_API_KEY: sk-...
//	GEMINI_API_KEY: AIza...
//
// A missing file yields no values.
func FileLoader(path string, keys ...string) Loader {
	return func() (map[string]string, error) {
		if path == "" {
			return map[string]string{}, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return map[string]string{}, nil
			}
			return nil, fmt.Errorf("read credentials file: %w", err)
		}

		var raw map[string]string
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse credentials file %s: %w", path, err)
		}
		return pick(raw, keys), nil
	}
}

// StaticLoader serves fixed values, typically those found in config.
func StaticLoader(values map[string]string) Loader {
	return func() (map[string]string, error) {
		out := make(map[string]string, len(values))
		for k, v := range values {
			if v != "" {
				out[k] = v
			}
		}
		return out, nil
	}
}

// Chain merges loaders. Earlier loaders take precedence; blank values never
// shadow a later source. Any loader error fails the whole chain.
func Chain(loaders ...Loader) Loader {
	return func() (map[string]string, error) {
		out := map[string]string{}
		for _, l := range loaders {
			vals, err := l()
			if err != nil {
				return nil, err
			}
			for k, v := range vals {
				if strings.TrimSpace(v) == "" {
					continue
				}
				if _, ok := out[k]; !ok {
					out[k] = v
				}
			}
		}
		return out, nil
	}
}

func pick(src map[string]string, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := src[k]; ok && v != "" {
			out[k] = v
		}
	}
	return out
}
