package credentials

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/linguist/pkg/models"
)

func newTestStore(t *testing.T, vals map[string]string, opts ...StoreOption) *Store {
	t.Helper()
	v, err := NewVault(func() (map[string]string, error) { return vals, nil })
	if err != nil {
		t.Fatalf("NewVault failed: %v", err)
	}
	return NewStore(v, opts...)
}

func TestStore_HasAndRead(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"OPENAI_API_KEY": "sk-1",
		"GEMINI_API_KEY": "   ",
	})

	tests := []struct {
		provider models.Provider
		has      bool
		value    string
		present  bool
	}{
		{models.ProviderOpenAI, true, "sk-1", true},
		{models.ProviderGemini, false, "   ", true},
		{models.ProviderClaude, false, "", false},
		{models.ProviderLocal, true, "", true},
		{models.ProviderAuto, false, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if got := s.Has(tt.provider); got != tt.has {
				t.Errorf("Has(%s) = %v, want %v", tt.provider, got, tt.has)
			}
			got, ok := s.Read(tt.provider)
			if got != tt.value || ok != tt.present {
				t.Errorf("Read(%s) = %q, %v, want %q, %v", tt.provider, got, ok, tt.value, tt.present)
			}
		})
	}
}

func TestStore_Ambient(t *testing.T) {
	s := newTestStore(t, nil, WithAmbient(models.ProviderClaude))

	if !s.Has(models.ProviderClaude) {
		t.Error("ambient provider should be credentialed")
	}
	if got, ok := s.Read(models.ProviderClaude); !ok || got != Ambient {
		t.Errorf("Read(claude) = %q, %v, want %q, true", got, ok, Ambient)
	}
	if got := s.Source(models.ProviderClaude); got != "AWS credentials" {
		t.Errorf("Source(claude) = %q", got)
	}
}

func TestStore_WithKey(t *testing.T) {
	s := newTestStore(t, map[string]string{"MY_OPENAI": "sk-custom"},
		WithKey(models.ProviderOpenAI, "MY_OPENAI"))

	if got, _ := s.Read(models.ProviderOpenAI); got != "sk-custom" {
		t.Errorf("Read(openai) = %q, want sk-custom", got)
	}
}

func TestStore_SourceIsMasked(t *testing.T) {
	s := newTestStore(t, map[string]string{"OPENAI_API_KEY": "sk-verysecret"})

	got := s.Source(models.ProviderOpenAI)
	if strings.Contains(got, "verysecret") {
		t.Errorf("Source leaked secret: %q", got)
	}
	if got != "OPENAI_API_KEY sk****" {
		t.Errorf("Source(openai) = %q", got)
	}
	if got := s.Source(models.ProviderGemini); got != "GEMINI_API_KEY not set" {
		t.Errorf("Source(gemini) = %q", got)
	}
}

func TestKeyNames(t *testing.T) {
	got := KeyNames()
	want := []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("KeyNames() = %v, want %v", got, want)
	}
}
