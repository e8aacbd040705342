package models

// OutputResult is one produced text tagged with its language.
type OutputResult struct {
	Language Language `json:"language"`
	Text     string   `json:"text"`
}

// ProviderResult is the outcome of a single provider client invocation.
type ProviderResult struct {
	Results []OutputResult `json:"results"`
	// Model is the concrete model identifier used.
	Model string `json:"model"`
}

// TaskRunOutput is the result of a single-provider run.
type TaskRunOutput struct {
	Results  []OutputResult `json:"results"`
	Provider Provider       `json:"provider"`
	Model    string         `json:"model"`
	// TokenEstimate is advisory only.
	TokenEstimate int `json:"token_estimate"`
	// LatencyMs is the wall time spent in the provider call.
	LatencyMs int64 `json:"latency_ms"`
}

// CompareEntry is one provider's outcome within a compare run.
type CompareEntry struct {
	Provider Provider `json:"provider"`
	// Model is empty when the provider failed.
	Model string `json:"model,omitempty"`
	// Results is empty when the provider failed.
	Results []OutputResult `json:"results"`
	// Error holds the human-readable failure, empty on success.
	Error string `json:"error,omitempty"`
	// ErrorKind is the machine-readable failure class, empty on success.
	ErrorKind string `json:"error_kind,omitempty"`
	// Loading marks a placeholder for a unit that is still running.
	Loading   bool  `json:"loading,omitempty"`
	Success   bool  `json:"success"`
	LatencyMs int64 `json:"latency_ms"`
}

// Failed reports whether the entry carries an error.
func (e CompareEntry) Failed() bool {
	return e.Error != ""
}

// CompareRunOutput is the result of a compare run. Entries arrive in
// completion order; look them up by provider, never by position.
type CompareRunOutput struct {
	Entries       []CompareEntry `json:"entries"`
	TokenEstimate int            `json:"token_estimate"`
}

// Entry returns the entry for a provider.
func (o *CompareRunOutput) Entry(p Provider) (CompareEntry, bool) {
	for _, e := range o.Entries {
		if e.Provider == p {
			return e, true
		}
	}
	return CompareEntry{}, false
}

// FailedProviders returns the providers whose entries carry an error, in entry order.
func FailedProviders(entries []CompareEntry) []Provider {
	var out []Provider
	for _, e := range entries {
		if e.Failed() {
			out = append(out, e.Provider)
		}
	}
	return out
}

// PendingEntries returns loading placeholders for providers about to be retried.
func PendingEntries(providers []Provider) []CompareEntry {
	out := make([]CompareEntry, len(providers))
	for i, p := range providers {
		out[i] = CompareEntry{Provider: p, Loading: true}
	}
	return out
}

// MergeCompareEntries overlays fresh entries onto stale ones by provider
// identity. Stale entries without a fresh counterpart are kept as they were;
// fresh entries for providers not present in stale are appended.
func MergeCompareEntries(stale, fresh []CompareEntry) []CompareEntry {
	byProvider := make(map[Provider]CompareEntry, len(fresh))
	for _, e := range fresh {
		byProvider[e.Provider] = e
	}

	merged := make([]CompareEntry, 0, len(stale)+len(fresh))
	seen := make(map[Provider]bool, len(stale))
	for _, e := range stale {
		if f, ok := byProvider[e.Provider]; ok {
			merged = append(merged, f)
		} else {
			merged = append(merged, e)
		}
		seen[e.Provider] = true
	}
	for _, e := range fresh {
		if !seen[e.Provider] {
			merged = append(merged, e)
			seen[e.Provider] = true
		}
	}
	return merged
}
