package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpec is returned when a TaskSpec or one of its fields is malformed.
var ErrInvalidSpec = errors.New("invalid task spec")

func unknownValue(kind, value string) error {
	return fmt.Errorf("%w: unknown %s %q", ErrInvalidSpec, kind, value)
}

// Mode is the kind of writing task requested.
type Mode string

const (
	// ModeTranslate translates the input into every target language.
	ModeTranslate Mode = "translate"
	// ModeImprove rewrites the input for clarity.
	ModeImprove Mode = "improve"
	// ModeRephrase rewrites the input with the same meaning.
	ModeRephrase Mode = "rephrase"
	// ModeSynonyms suggests synonyms with short usage notes.
	ModeSynonyms Mode = "synonyms"
)

// AllModes lists every mode in display order.
var AllModes = []Mode{ModeTranslate, ModeImprove, ModeRephrase, ModeSynonyms}

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	switch m {
	case ModeTranslate, ModeImprove, ModeRephrase, ModeSynonyms:
		return true
	default:
		return false
	}
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", unknownValue("mode", s)
	}
	return m, nil
}

// Intent shapes the framing of the output (an email reads differently from a chat message).
type Intent string

const (
	IntentEmail Intent = "email"
	IntentSMS   Intent = "sms"
	IntentChat  Intent = "chat"
	IntentPlain Intent = "plain"
)

// Valid returns true if the intent is a known value.
func (i Intent) Valid() bool {
	switch i {
	case IntentEmail, IntentSMS, IntentChat, IntentPlain:
		return true
	default:
		return false
	}
}

// ParseIntent parses an intent name case-insensitively.
func ParseIntent(s string) (Intent, error) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", unknownValue("intent", s)
	}
	return i, nil
}

// Tone guides the writing style.
type Tone string

const (
	ToneNeutral      Tone = "neutral"
	ToneFormal       Tone = "formal"
	ToneInformal     Tone = "informal"
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneDirect       Tone = "direct"
)

// Valid returns true if the tone is a known value.
func (t Tone) Valid() bool {
	switch t {
	case ToneNeutral, ToneFormal, ToneInformal, ToneProfessional, ToneFriendly, ToneDirect:
		return true
	default:
		return false
	}
}

// ParseTone parses a tone name case-insensitively.
func ParseTone(s string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", unknownValue("tone", s)
	}
	return t, nil
}

// ImprovePreset is a canned refinement applied as an extra instruction.
type ImprovePreset string

const (
	PresetShorter      ImprovePreset = "shorter"
	PresetMoreFormal   ImprovePreset = "more-formal"
	PresetMoreFriendly ImprovePreset = "more-friendly"
)

// Instruction returns the extra instruction text for the preset, or "" if unknown.
func (p ImprovePreset) Instruction() string {
	switch p {
	case PresetShorter:
		return "Make the text shorter while preserving meaning."
	case PresetMoreFormal:
		return "Make the text more formal while preserving meaning."
	case PresetMoreFriendly:
		return "Make the text more friendly while preserving meaning."
	default:
		return ""
	}
}

// TaskSpec describes one provider-agnostic task request. It is created per
// request and never mutated afterwards.
type TaskSpec struct {
	// InputText is the raw text to process.
	InputText string `json:"input_text"`
	// Mode is the requested task.
	Mode Mode `json:"mode"`
	// Intent shapes prompt framing.
	Intent Intent `json:"intent"`
	// Tone is the desired register.
	Tone Tone `json:"tone"`
	// Provider is either ProviderAuto or a concrete provider.
	Provider Provider `json:"provider"`
	// Tier is the model tier hint.
	Tier ModelTier `json:"tier"`
	// Languages are the targets. For modes other than translate only the
	// first entry is used, to tag the single output.
	Languages []Language `json:"languages"`
	// SourceLanguage is an optional source language code.
	SourceLanguage string `json:"source_language,omitempty"`
	// ExtraInstruction is optional free text appended to the prompt.
	ExtraInstruction string `json:"extra_instruction,omitempty"`
}

// Validate checks every enum and that translate has a target language.
func (s *TaskSpec) Validate() error {
	if !s.Mode.Valid() {
		return unknownValue("mode", string(s.Mode))
	}
	if !s.Intent.Valid() {
		return unknownValue("intent", string(s.Intent))
	}
	if !s.Tone.Valid() {
		return unknownValue("tone", string(s.Tone))
	}
	if !s.Provider.Valid() {
		return unknownValue("provider", string(s.Provider))
	}
	if !s.Tier.Valid() {
		return unknownValue("tier", string(s.Tier))
	}
	if s.Mode == ModeTranslate && len(s.Languages) == 0 {
		return fmt.Errorf("%w: translate requires at least one target language", ErrInvalidSpec)
	}
	return nil
}

// PrimaryLanguage returns the language used to tag single-output results.
// It falls back to English when no languages were given.
func (s *TaskSpec) PrimaryLanguage() Language {
	if len(s.Languages) == 0 {
		return English
	}
	return s.Languages[0]
}
