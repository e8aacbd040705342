package models

import (
	"fmt"
	"strings"
)

// TaskRequest is the loosely typed form of a TaskSpec, as received from
// command-line flags or an HTTP body. Empty fields take defaults.
type TaskRequest struct {
	Text             string   `json:"text"`
	Mode             string   `json:"mode,omitempty"`
	Intent           string   `json:"intent,omitempty"`
	Tone             string   `json:"tone,omitempty"`
	Provider         string   `json:"provider,omitempty"`
	Tier             string   `json:"tier,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	SourceLanguage   string   `json:"source_language,omitempty"`
	ExtraInstruction string   `json:"extra_instruction,omitempty"`
	Preset           string   `json:"preset,omitempty"`
}

// WithDefaults returns a copy of r with every empty enum field and the
// language list filled from d. Text, source, extra and preset are never defaulted.
func (r TaskRequest) WithDefaults(d TaskRequest) TaskRequest {
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&r.Mode, d.Mode)
	fill(&r.Intent, d.Intent)
	fill(&r.Tone, d.Tone)
	fill(&r.Provider, d.Provider)
	fill(&r.Tier, d.Tier)
	if len(r.Languages) == 0 {
		r.Languages = append([]string(nil), d.Languages...)
	}
	return r
}

// Spec parses r into a validated TaskSpec.
func (r TaskRequest) Spec() (*TaskSpec, error) {
	if strings.TrimSpace(r.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidSpec)
	}

	mode, err := ParseMode(r.Mode)
	if err != nil {
		return nil, err
	}
	intent, err := ParseIntent(r.Intent)
	if err != nil {
		return nil, err
	}
	tone, err := ParseTone(r.Tone)
	if err != nil {
		return nil, err
	}
	provider, err := ParseProvider(r.Provider)
	if err != nil {
		return nil, err
	}
	tier, err := ParseTier(r.Tier)
	if err != nil {
		return nil, err
	}
	langs, err := ParseLanguages(r.Languages)
	if err != nil {
		return nil, err
	}

	extra := strings.TrimSpace(r.ExtraInstruction)
	if r.Preset != "" {
		instr := ImprovePreset(strings.ToLower(strings.TrimSpace(r.Preset))).Instruction()
		if instr == "" {
			return nil, unknownValue("preset", r.Preset)
		}
		extra = strings.TrimSpace(instr + " " + extra)
	}

	spec := &TaskSpec{
		InputText:        r.Text,
		Mode:             mode,
		Intent:           intent,
		Tone:             tone,
		Provider:         provider,
		Tier:             tier,
		Languages:        langs,
		SourceLanguage:   strings.TrimSpace(r.SourceLanguage),
		ExtraInstruction: extra,
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
