package provider

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// envelope requires "results": a missing key or null is not an envelope.
type envelope struct {
	Results *[]envelopeItem `json:"results"`
}

type envelopeItem struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// ParseResponse decodes a provider's text reply, expected to be a JSON
// object of the form {"results":[{"language":"CODE","text":"..."}]}.
//
// Items whose language is not in the catalog are dropped silently so a
// model inventing an extra language does not discard the whole reply.
// Surviving items keep their order. An empty results array is valid.
func ParseResponse(content string) ([]models.OutputResult, error) {
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("%w: reply is not valid UTF-8", ErrDecodingFailed)
	}

	var env envelope
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailed, err)
	}
	if env.Results == nil {
		return nil, fmt.Errorf("%w: reply has no results array", ErrDecodingFailed)
	}

	results := make([]models.OutputResult, 0, len(*env.Results))
	for _, item := range *env.Results {
		lang, ok := models.LookupLanguage(item.Language)
		if !ok {
			continue
		}
		results = append(results, models.OutputResult{Language: lang, Text: item.Text})
	}
	return results, nil
}
