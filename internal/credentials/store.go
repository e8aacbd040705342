package credentials

import (
	"strings"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// Ambient is returned by Read for providers authenticated by the
// environment rather than a key (Claude over AWS Bedrock).
const Ambient = "ambient"

// DefaultKeys maps each credentialed provider to its secret name.
var DefaultKeys = map[models.Provider]string{
	models.ProviderOpenAI: "OPENAI_API_KEY",
	models.ProviderClaude: "ANTHROPIC_API_KEY",
	models.ProviderGemini: "GEMINI_API_KEY",
}

// KeyNames returns the secret names in DefaultKeys in provider priority order.
func KeyNames() []string {
	names := make([]string, 0, len(DefaultKeys))
	for _, p := range models.NetworkProviders {
		names = append(names, DefaultKeys[p])
	}
	return names
}

// Store answers whether a provider has a usable credential and reads it.
// It is safe for concurrent use; all lookups are reads of the Vault.
type Store struct {
	vault   *Vault
	keys    map[models.Provider]string
	ambient map[models.Provider]bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithAmbient marks p as credentialed without a stored secret.
func WithAmbient(p models.Provider) StoreOption {
	return func(s *Store) {
		s.ambient[p] = true
	}
}

// WithKey overrides the secret name for p.
func WithKey(p models.Provider, key string) StoreOption {
	return func(s *Store) {
		s.keys[p] = key
	}
}

// NewStore creates a Store over v.
func NewStore(v *Vault, opts ...StoreOption) *Store {
	s := &Store{
		vault:   v,
		keys:    make(map[models.Provider]string, len(DefaultKeys)),
		ambient: map[models.Provider]bool{},
	}
	for p, k := range DefaultKeys {
		s.keys[p] = k
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Has reports whether p has a usable credential. Concrete providers that
// need none always have one.
func (s *Store) Has(p models.Provider) bool {
	if !p.Concrete() {
		return false
	}
	if !p.RequiresCredential() || s.ambient[p] {
		return true
	}
	v, ok := s.Read(p)
	return ok && strings.TrimSpace(v) != ""
}

// Read returns the credential for p. ok is false when nothing is stored.
func (s *Store) Read(p models.Provider) (string, bool) {
	if !p.Concrete() {
		return "", false
	}
	if !p.RequiresCredential() {
		return "", true
	}
	if s.ambient[p] {
		return Ambient, true
	}
	key, known := s.keys[p]
	if !known {
		return "", false
	}
	return s.vault.Get(key)
}

// Source describes where p's credential comes from, masked for display.
func (s *Store) Source(p models.Provider) string {
	switch {
	case !p.RequiresCredential():
		return "not required"
	case s.ambient[p]:
		return "AWS credentials"
	}
	key := s.keys[p]
	if masked := s.vault.Redacted(key); masked != "" {
		return key + " " + masked
	}
	return key + " not set"
}

// Vault returns the backing vault.
func (s *Store) Vault() *Vault {
	return s.vault
}
