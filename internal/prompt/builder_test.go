package prompt

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/linguist/pkg/models"
)

func testSpec() *models.TaskSpec {
	return &models.TaskSpec{
		InputText: "Bom dia a todos",
		Mode:      models.ModeTranslate,
		Intent:    models.IntentChat,
		Tone:      models.ToneFriendly,
		Provider:  models.ProviderAuto,
		Tier:      models.TierFast,
		Languages: []models.Language{models.English, models.German},
	}
}

func TestSystemPrompt_PerMode(t *testing.T) {
	b := NewBuilder()
	tests := []struct {
		mode models.Mode
		want string
	}{
		{models.ModeTranslate, "Translate into the target languages."},
		{models.ModeImprove, "improve clarity"},
		{models.ModeRephrase, "Rephrase with the same meaning"},
		{models.ModeSynonyms, "Provide synonyms"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			spec := testSpec()
			spec.Mode = tt.mode
			got := b.SystemPrompt(spec)
			if !strings.HasPrefix(got, systemBase) {
				t.Errorf("system prompt should start with the role preamble, got %q", got)
			}
			if !strings.Contains(got, `{"language":"CODE","text":"..."}`) {
				t.Error("system prompt should demand the JSON envelope")
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("system prompt for %s missing %q: %q", tt.mode, tt.want, got)
			}
		})
	}
}

func TestSystemPrompt_UnknownModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown mode")
		}
	}()
	spec := testSpec()
	spec.Mode = models.Mode("summarize")
	NewBuilder().SystemPrompt(spec)
}

func TestUserPrompt_Layout(t *testing.T) {
	got := NewBuilder().UserPrompt(testSpec())
	want := "Mode: translate\n" +
		"Intent: chat\n" +
		"Tone: friendly\n" +
		"Source: Auto\n" +
		"Target Languages: EN, DE\n" +
		"\nInput:\n" +
		"Bom dia a todos"
	if got != want {
		t.Errorf("UserPrompt() =\n%s\nwant\n%s", got, want)
	}
}

func TestUserPrompt_SourceAndExtra(t *testing.T) {
	spec := testSpec()
	spec.SourceLanguage = "PT"
	spec.ExtraInstruction = "  keep it short  "

	got := NewBuilder().UserPrompt(spec)
	if !strings.Contains(got, "Source: PT\n") {
		t.Errorf("missing explicit source: %q", got)
	}
	if !strings.Contains(got, "Target Languages: EN, DE\nExtra: keep it short\n") {
		t.Errorf("extra line should follow targets, got %q", got)
	}
}

func TestUserPrompt_BlankExtraOmitted(t *testing.T) {
	spec := testSpec()
	spec.ExtraInstruction = " \n\t "
	if got := NewBuilder().UserPrompt(spec); strings.Contains(got, "Extra:") {
		t.Errorf("blank extra instruction should be omitted, got %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty uses floor", "", 24},
		{"short uses floor", "hello", 24},
		{"long divides by four", strings.Repeat("a", 400), 100},
		{"counts runes not bytes", strings.Repeat("é", 200), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}
