package models

// AutoModelPlaceholder is reported when no concrete model applies.
const AutoModelPlaceholder = "auto"

// LocalModel is the model identifier reported by the local provider.
const LocalModel = "local-translation"

var defaultModels = map[Provider]map[ModelTier]string{
	ProviderOpenAI: {
		TierFast:     "gpt-4o-mini",
		TierBalanced: "gpt-4o",
		TierBest:     "gpt-4-turbo",
	},
	ProviderClaude: {
		TierFast:     "claude-3-5-haiku-latest",
		TierBalanced: "claude-3-5-sonnet-latest",
		TierBest:     "claude-3-5-opus-latest",
	},
	ProviderGemini: {
		TierFast:     "gemini-1.5-flash",
		TierBalanced: "gemini-2.0-flash",
		TierBest:     "gemini-2.0-flash",
	},
	ProviderLocal: {
		TierFast:     LocalModel,
		TierBalanced: LocalModel,
		TierBest:     LocalModel,
	},
}

var advancedModels = map[Provider][]string{
	ProviderOpenAI: {"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"},
	ProviderClaude: {"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest", "claude-3-5-opus-latest"},
	ProviderGemini: {"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"},
}

// DefaultModel returns the model identifier a provider uses for a tier.
// Unknown combinations and ProviderAuto yield AutoModelPlaceholder.
func DefaultModel(p Provider, tier ModelTier) string {
	if p == ProviderAuto {
		return AutoModelPlaceholder
	}
	if m, ok := defaultModels[p][tier]; ok {
		return m
	}
	return AutoModelPlaceholder
}

// AdvancedModels returns the selectable model identifiers for a provider.
func AdvancedModels(p Provider) []string {
	return append([]string(nil), advancedModels[p]...)
}
