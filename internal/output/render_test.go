package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/pkg/models"
)

func testRun() *models.TaskRunOutput {
	return &models.TaskRunOutput{
		Results: []models.OutputResult{
			{Language: models.English, Text: "Hello, how are you?"},
			{Language: models.German, Text: "Hallo, wie geht's?"},
		},
		Provider:      models.ProviderOpenAI,
		Model:         "gpt-4o-mini",
		TokenEstimate: 12,
		LatencyMs:     850,
	}
}

func testCompare() *models.CompareRunOutput {
	return &models.CompareRunOutput{
		Entries: []models.CompareEntry{
			{Provider: models.ProviderOpenAI, Model: "gpt-4o-mini", Success: true, LatencyMs: 1200,
				Results: []models.OutputResult{{Language: models.English, Text: "Hi there"}}},
			{Provider: models.ProviderGemini, Error: "Gemini HTTP 429", ErrorKind: "service_error", Results: []models.OutputResult{}},
		},
		TokenEstimate: 7,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderRun_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, testRun(), FormatText); err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"OpenAI", "gpt-4o-mini", "850ms", "~12 tokens", "English", "Hello, how are you?", "German", "Hallo, wie geht's?"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRun_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, testRun(), FormatJSON); err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}

	var got models.TaskRunOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Model != "gpt-4o-mini" || len(got.Results) != 2 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestRenderRun_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRun(&buf, testRun(), FormatYAML); err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if got["provider"] != "openai" {
		t.Errorf("provider = %v, want openai", got["provider"])
	}
	if got["token_estimate"] != 12 {
		t.Errorf("token_estimate = %v, want 12", got["token_estimate"])
	}
}

func TestRenderCompare_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCompare(&buf, testCompare(), FormatText, 100); err != nil {
		t.Fatalf("RenderCompare failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"OpenAI", "Gemini", "Done", "Failed", "Hi there", "Rate limit hit. Try again.", "1.2s", "~7 tokens"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCompare_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCompare(&buf, &models.CompareRunOutput{}, FormatText, 0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No results.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderCompare_JSONKeepsErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCompare(&buf, testCompare(), FormatJSON, 0); err != nil {
		t.Fatal(err)
	}

	var got models.CompareRunOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	e, ok := got.Entry(models.ProviderGemini)
	if !ok || e.ErrorKind != "service_error" || e.Success {
		t.Errorf("gemini entry = %+v", e)
	}
}

func TestRenderHistory(t *testing.T) {
	spec := &models.TaskSpec{
		InputText: "Olá, tudo bem?",
		Mode:      models.ModeTranslate,
		Intent:    models.IntentChat,
		Tone:      models.ToneNeutral,
		Provider:  models.ProviderAuto,
		Tier:      models.TierBalanced,
		Languages: []models.Language{models.English},
	}
	e, err := history.FromRun(spec, testRun())
	if err != nil {
		t.Fatal(err)
	}
	e.ID = "abcd1234"
	e.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := RenderHistory(&buf, []history.Entry{*e}, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"abcd1234", "run", "translate", "openai", "Olá, tudo bem?"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderHistoryEntry(&buf, e, FormatText, 80); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Hello, how are you?") {
		t.Errorf("entry output missing decoded results:\n%s", buf.String())
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "No history yet." {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a  much\nlonger text here", 10); got != "a much ..." {
		t.Errorf("truncate = %q, want %q", got, "a much ...")
	}
}
