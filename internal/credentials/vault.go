// Package credentials resolves provider credentials from layered sources
// and keeps them fresh when backing files change.
package credentials

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Loader retrieves secrets from a source (env vars, a dotenv file, a YAML file, config).
type Loader func() (map[string]string, error)

// Vault holds secret values in memory and supports atomic reloading.
type Vault struct {
	mu     sync.RWMutex
	values map[string]string
	loader Loader
}

// NewVault creates a Vault, calling the loader once to populate initial values.
func NewVault(loader Loader) (*Vault, error) {
	vals, err := loader()
	if err != nil {
		return nil, fmt.Errorf("initial credential load: %w", err)
	}
	if vals == nil {
		vals = map[string]string{}
	}
	return &Vault{values: vals, loader: loader}, nil
}

// Get returns the secret for key. ok is false when the key is absent, which
// is distinct from a key present with an empty value.
func (v *Vault) Get(key string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.values[key]
	return val, ok
}

// Keys returns the loaded key names, sorted.
func (v *Vault) Keys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Redacted returns a masked form of the secret for display: the first two
// characters followed by "****", or just "****" for short values.
func (v *Vault) Redacted(key string) string {
	val, ok := v.Get(key)
	if !ok || val == "" {
		return ""
	}
	return Mask(val)
}

// Mask hides a secret value.
func Mask(val string) string {
	if len(val) <= 4 {
		return "****"
	}
	return val[:2] + "****"
}

// RedactString replaces every loaded secret occurring in s with its mask.
func (v *Vault) RedactString(s string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, val := range v.values {
		if len(val) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, val, Mask(val))
	}
	return s
}

// Reload calls the loader and swaps in the new values atomically.
// If the loader returns an error, existing values are preserved.
func (v *Vault) Reload() error {
	newVals, err := v.loader()
	if err != nil {
		return fmt.Errorf("reload credentials: %w", err)
	}
	if newVals == nil {
		newVals = map[string]string{}
	}
	v.mu.Lock()
	v.values = newVals
	v.mu.Unlock()
	return nil
}
