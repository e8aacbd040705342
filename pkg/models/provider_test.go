package models

import (
	"errors"
	"testing"
)

func TestProvider_RequiresCredential(t *testing.T) {
	tests := []struct {
		provider Provider
		want     bool
	}{
		{ProviderOpenAI, true},
		{ProviderClaude, true},
		{ProviderGemini, true},
		{ProviderLocal, false},
		{ProviderAuto, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if got := tt.provider.RequiresCredential(); got != tt.want {
				t.Errorf("%s.RequiresCredential() = %v, want %v", tt.provider, got, tt.want)
			}
		})
	}
}

func TestNetworkProviders_ExcludesLocal(t *testing.T) {
	for _, p := range NetworkProviders {
		if p == ProviderLocal || p == ProviderAuto {
			t.Errorf("NetworkProviders contains %q", p)
		}
	}
	if NetworkProviders[0] != ProviderOpenAI {
		t.Errorf("highest priority provider = %q, want %q", NetworkProviders[0], ProviderOpenAI)
	}
}

func TestProvider_Concrete(t *testing.T) {
	if ProviderAuto.Concrete() {
		t.Error("auto must never be concrete")
	}
	if !ProviderLocal.Concrete() {
		t.Error("local should be concrete")
	}
	if Provider("mistral").Concrete() {
		t.Error("unknown provider should not be concrete")
	}
}

func TestParseProviders(t *testing.T) {
	got, err := ParseProviders([]string{"OpenAI", "local"})
	if err != nil {
		t.Fatalf("ParseProviders failed: %v", err)
	}
	if len(got) != 2 || got[0] != ProviderOpenAI || got[1] != ProviderLocal {
		t.Errorf("ParseProviders = %v", got)
	}

	if _, err := ParseProviders([]string{"auto"}); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseProviders(auto) error = %v, want ErrInvalidSpec", err)
	}
}

func TestDefaultModel(t *testing.T) {
	tests := []struct {
		provider Provider
		tier     ModelTier
		want     string
	}{
		{ProviderOpenAI, TierFast, "gpt-4o-mini"},
		{ProviderClaude, TierBest, "claude-3-5-opus-latest"},
		{ProviderGemini, TierBalanced, "gemini-2.0-flash"},
		{ProviderLocal, TierBest, LocalModel},
		{ProviderAuto, TierFast, AutoModelPlaceholder},
		{ProviderOpenAI, ModelTier("ultra"), AutoModelPlaceholder},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider)+"/"+string(tt.tier), func(t *testing.T) {
			if got := DefaultModel(tt.provider, tt.tier); got != tt.want {
				t.Errorf("DefaultModel(%q, %q) = %q, want %q", tt.provider, tt.tier, got, tt.want)
			}
		})
	}
}
