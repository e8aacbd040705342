package models

import "strings"

// Provider identifies one interchangeable text-generation backend.
type Provider string

const (
	// ProviderAuto asks the runner to pick a concrete provider. It is never
	// an execution target itself.
	ProviderAuto Provider = "auto"
	// ProviderOpenAI is the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderClaude is the Anthropic Messages API.
	ProviderClaude Provider = "claude"
	// ProviderGemini is the Google Gemini generateContent API.
	ProviderGemini Provider = "gemini"
	// ProviderLocal is the local translation backend. It needs no credential.
	ProviderLocal Provider = "local"
)

// NetworkProviders lists the credentialed providers in auto-resolution
// priority order. The local provider is deliberately absent.
var NetworkProviders = []Provider{ProviderOpenAI, ProviderClaude, ProviderGemini}

// ConcreteProviders lists every provider that can execute a task.
var ConcreteProviders = []Provider{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderLocal}

// Valid returns true if the provider is a known value, including auto.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAuto, ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderLocal:
		return true
	default:
		return false
	}
}

// Concrete returns true if the provider can be executed directly.
func (p Provider) Concrete() bool {
	return p.Valid() && p != ProviderAuto
}

// RequiresCredential reports whether the provider needs a stored credential.
func (p Provider) RequiresCredential() bool {
	switch p {
	case ProviderOpenAI, ProviderClaude, ProviderGemini:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable provider name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderAuto:
		return "Auto"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderClaude:
		return "Claude"
	case ProviderGemini:
		return "Gemini"
	case ProviderLocal:
		return "Local Translation"
	default:
		return string(p)
	}
}

// ParseProvider parses a provider name case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", unknownValue("provider", s)
	}
	return p, nil
}

// ParseProviders parses a list of provider names. Auto is rejected because a
// provider list always names concrete targets.
func ParseProviders(names []string) ([]Provider, error) {
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		p, err := ParseProvider(name)
		if err != nil {
			return nil, err
		}
		if p == ProviderAuto {
			return nil, unknownValue("concrete provider", name)
		}
		out = append(out, p)
	}
	return out, nil
}
