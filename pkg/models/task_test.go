package models

import (
	"errors"
	"testing"
)

func validSpec() TaskSpec {
	return TaskSpec{
		InputText: "Hello there",
		Mode:      ModeTranslate,
		Intent:    IntentEmail,
		Tone:      ToneNeutral,
		Provider:  ProviderAuto,
		Tier:      TierBalanced,
		Languages: []Language{Portuguese, German},
	}
}

func TestMode_Valid(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want bool
	}{
		{"translate is valid", ModeTranslate, true},
		{"improve is valid", ModeImprove, true},
		{"rephrase is valid", ModeRephrase, true},
		{"synonyms is valid", ModeSynonyms, true},
		{"empty string is invalid", Mode(""), false},
		{"unknown mode is invalid", Mode("summarize"), false},
		{"title case is invalid", Mode("Translate"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Valid(); got != tt.want {
				t.Errorf("Mode(%q).Valid() = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if m, err := ParseMode("Rephrase"); err != nil || m != ModeRephrase {
		t.Errorf("ParseMode(Rephrase) = %q, %v", m, err)
	}
	if i, err := ParseIntent("SMS"); err != nil || i != IntentSMS {
		t.Errorf("ParseIntent(SMS) = %q, %v", i, err)
	}
	if tone, err := ParseTone(" friendly "); err != nil || tone != ToneFriendly {
		t.Errorf("ParseTone(friendly) = %q, %v", tone, err)
	}
	if _, err := ParseTone("sarcastic"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseTone(sarcastic) error = %v, want ErrInvalidSpec", err)
	}
}

func TestTaskSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TaskSpec)
		wantErr bool
	}{
		{"valid translate", func(*TaskSpec) {}, false},
		{"translate without languages", func(s *TaskSpec) { s.Languages = nil }, true},
		{"improve without languages", func(s *TaskSpec) {
			s.Mode = ModeImprove
			s.Languages = nil
		}, false},
		{"unknown mode", func(s *TaskSpec) { s.Mode = "shout" }, true},
		{"unknown intent", func(s *TaskSpec) { s.Intent = "letter" }, true},
		{"unknown tone", func(s *TaskSpec) { s.Tone = "" }, true},
		{"unknown provider", func(s *TaskSpec) { s.Provider = "mistral" }, true},
		{"unknown tier", func(s *TaskSpec) { s.Tier = "ultra" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			err := spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalidSpec", err)
			}
		})
	}
}

func TestTaskSpec_PrimaryLanguage(t *testing.T) {
	spec := validSpec()
	if got := spec.PrimaryLanguage(); got != Portuguese {
		t.Errorf("PrimaryLanguage() = %v, want %v", got, Portuguese)
	}

	spec.Languages = nil
	if got := spec.PrimaryLanguage(); got != English {
		t.Errorf("PrimaryLanguage() with no languages = %v, want %v", got, English)
	}
}

func TestImprovePreset_Instruction(t *testing.T) {
	if PresetShorter.Instruction() == "" {
		t.Error("shorter preset should have an instruction")
	}
	if got := ImprovePreset("louder").Instruction(); got != "" {
		t.Errorf("unknown preset instruction = %q, want empty", got)
	}
}
