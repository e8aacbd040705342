package models

import (
	"errors"
	"reflect"
	"testing"
)

func defaultRequest() TaskRequest {
	return TaskRequest{
		Mode:      "translate",
		Intent:    "plain",
		Tone:      "neutral",
		Provider:  "auto",
		Tier:      "balanced",
		Languages: []string{"pt", "en", "de"},
	}
}

func TestTaskRequest_WithDefaults(t *testing.T) {
	r := TaskRequest{Text: "hi", Tone: "formal", Languages: []string{"fr"}}.WithDefaults(defaultRequest())

	if r.Mode != "translate" || r.Intent != "plain" || r.Provider != "auto" || r.Tier != "balanced" {
		t.Errorf("defaults not applied: %+v", r)
	}
	if r.Tone != "formal" {
		t.Errorf("Tone = %q, want explicit value kept", r.Tone)
	}
	if !reflect.DeepEqual(r.Languages, []string{"fr"}) {
		t.Errorf("Languages = %v, want [fr]", r.Languages)
	}
}

func TestTaskRequest_WithDefaultsCopiesLanguages(t *testing.T) {
	d := defaultRequest()
	r := TaskRequest{Text: "hi"}.WithDefaults(d)
	r.Languages[0] = "ja"
	if d.Languages[0] != "pt" {
		t.Error("WithDefaults shares the defaults language slice")
	}
}

func TestTaskRequest_Spec(t *testing.T) {
	spec, err := TaskRequest{
		Text:           "Olá",
		Mode:           "Improve",
		Intent:         "EMAIL",
		Tone:           "friendly",
		Provider:       "gemini",
		Tier:           "best",
		Languages:      []string{"en"},
		SourceLanguage: " pt ",
		Preset:         "shorter",
	}.Spec()
	if err != nil {
		t.Fatalf("Spec() failed: %v", err)
	}

	if spec.Mode != ModeImprove || spec.Intent != IntentEmail || spec.Provider != ProviderGemini || spec.Tier != TierBest {
		t.Errorf("spec = %+v", spec)
	}
	if spec.SourceLanguage != "pt" {
		t.Errorf("SourceLanguage = %q, want %q", spec.SourceLanguage, "pt")
	}
	if spec.ExtraInstruction != PresetShorter.Instruction() {
		t.Errorf("ExtraInstruction = %q, want preset instruction", spec.ExtraInstruction)
	}
}

func TestTaskRequest_SpecPresetAndExtra(t *testing.T) {
	r := defaultRequest()
	r.Text = "hi"
	r.Preset = "more-formal"
	r.ExtraInstruction = "Keep the emoji."

	spec, err := r.Spec()
	if err != nil {
		t.Fatal(err)
	}
	want := PresetMoreFormal.Instruction() + " Keep the emoji."
	if spec.ExtraInstruction != want {
		t.Errorf("ExtraInstruction = %q, want %q", spec.ExtraInstruction, want)
	}
}

func TestTaskRequest_SpecErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TaskRequest)
	}{
		{"blank text", func(r *TaskRequest) { r.Text = "  " }},
		{"bad mode", func(r *TaskRequest) { r.Mode = "summarize" }},
		{"bad intent", func(r *TaskRequest) { r.Intent = "fax" }},
		{"bad tone", func(r *TaskRequest) { r.Tone = "angry" }},
		{"bad provider", func(r *TaskRequest) { r.Provider = "cohere" }},
		{"bad tier", func(r *TaskRequest) { r.Tier = "ultra" }},
		{"bad language", func(r *TaskRequest) { r.Languages = []string{"xx"} }},
		{"bad preset", func(r *TaskRequest) { r.Preset = "louder" }},
		{"translate without languages", func(r *TaskRequest) { r.Languages = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := defaultRequest()
			r.Text = "hello"
			tt.mutate(&r)
			if _, err := r.Spec(); !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("Spec() error = %v, want ErrInvalidSpec", err)
			}
		})
	}
}
