package models

import "strings"

// ModelTier is a hint for how capable (and costly) a model a provider should use.
type ModelTier string

const (
	// TierFast prefers the cheapest, lowest-latency model.
	TierFast ModelTier = "fast"
	// TierBalanced is the default trade-off between quality and speed.
	TierBalanced ModelTier = "balanced"
	// TierBest prefers the most capable model.
	TierBest ModelTier = "best"
)

// AllTiers lists every known tier in display order.
var AllTiers = []ModelTier{TierFast, TierBalanced, TierBest}

// Valid returns true if the tier is a known value.
func (t ModelTier) Valid() bool {
	switch t {
	case TierFast, TierBalanced, TierBest:
		return true
	default:
		return false
	}
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (ModelTier, error) {
	t := ModelTier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", unknownValue("tier", s)
	}
	return t, nil
}
