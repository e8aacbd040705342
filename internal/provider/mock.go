package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// MockClient synthesises replies from the input without any I/O. Phrase
// choice is a deterministic function of the input so tests are stable.
type MockClient struct {
	Provider models.Provider
	// Delay simulates provider latency; it honours cancellation.
	Delay time.Duration
	// Err, when set, is returned instead of a result.
	Err error
}

// NewMockClient creates a mock standing in for p.
func NewMockClient(p models.Provider) *MockClient {
	return &MockClient{Provider: p}
}

func (m *MockClient) ID() models.Provider {
	return m.Provider
}

func (m *MockClient) Run(ctx context.Context, spec *models.TaskSpec, _ string) (*models.ProviderResult, error) {
	if m.Delay > 0 {
		if err := sleepContext(ctx, m.Delay); err != nil {
			return nil, Cancelled(err)
		}
	} else if ctx.Err() != nil {
		return nil, Cancelled(ctx.Err())
	}
	if m.Err != nil {
		return nil, m.Err
	}

	return &models.ProviderResult{
		Results: mockResults(spec),
		Model:   "mock-" + string(spec.Tier),
	}, nil
}

func mockResults(spec *models.TaskSpec) []models.OutputResult {
	tone := string(spec.Tone)
	in := spec.InputText

	if spec.Mode == models.ModeTranslate {
		langs := spec.Languages
		if len(langs) == 0 {
			langs = []models.Language{models.English}
		}
		out := make([]models.OutputResult, len(langs))
		for i, l := range langs {
			phrases := []string{
				fmt.Sprintf("Translation (%s), %s: %s", l.Code, tone, in),
				fmt.Sprintf("%s version, %s: %s", l.Name, tone, in),
				fmt.Sprintf("In %s (%s): %s", l.Name, tone, in),
			}
			out[i] = models.OutputResult{Language: l, Text: pick(phrases, in+l.Code)}
		}
		return out
	}

	var text string
	switch spec.Mode {
	case models.ModeImprove:
		text = pick([]string{
			fmt.Sprintf("%s rewrite: %s", tone, in),
			fmt.Sprintf("Improved (%s): %s", tone, in),
			fmt.Sprintf("%s phrasing: %s", tone, in),
		}, in)
	case models.ModeRephrase:
		text = pick([]string{
			fmt.Sprintf("Rephrase (%s): %s", tone, in),
			fmt.Sprintf("Same meaning, new phrasing (%s): %s", tone, in),
			fmt.Sprintf("Alternate phrasing (%s): %s", tone, in),
		}, in)
	default:
		sets := [][]string{
			{"clear", "plain", "direct"},
			{"polished", "refined", "elevated"},
			{"friendly", "warm", "approachable"},
			{"concise", "tight", "succinct"},
		}
		text = fmt.Sprintf("Synonyms (%s): %s", tone, strings.Join(sets[index(len(sets), in)], ", "))
	}
	return []models.OutputResult{{Language: spec.PrimaryLanguage(), Text: text}}
}

func pick(phrases []string, seed string) string {
	return phrases[index(len(phrases), seed)]
}

func index(n int, seed string) int {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return int(h.Sum32() % uint32(n))
}
