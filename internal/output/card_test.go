package output

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/linguist/pkg/models"
)

func TestProviderCard_Status(t *testing.T) {
	tests := []struct {
		name  string
		entry models.CompareEntry
		want  []string
	}{
		{
			name: "success",
			entry: models.CompareEntry{Provider: models.ProviderClaude, Model: "claude-3-5-haiku-latest", Success: true, LatencyMs: 420,
				Results: []models.OutputResult{{Language: models.Portuguese, Text: "Olá"}}},
			want: []string{"Claude", iconDone + " Done", "claude-3-5-haiku-latest", "PT", "Olá", "420ms"},
		},
		{
			name:  "failed",
			entry: models.CompareEntry{Provider: models.ProviderOpenAI, Error: "network error: EOF", ErrorKind: "network"},
			want:  []string{"OpenAI", iconFailed + " Failed", "Network error. Try again."},
		},
		{
			name:  "loading",
			entry: models.CompareEntry{Provider: models.ProviderLocal, Loading: true},
			want:  []string{"Local Translation", iconLoading + " Running"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewProviderCard(tt.entry, 40).View()
			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Errorf("card missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestFormatLatency(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0ms"},
		{999, "999ms"},
		{1000, "1.0s"},
		{2450, "2.5s"},
	}
	for _, tt := range tests {
		if got := formatLatency(tt.ms); got != tt.want {
			t.Errorf("formatLatency(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
