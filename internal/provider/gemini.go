package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShayCichocki/linguist/internal/prompt"
	"github.com/ShayCichocki/linguist/pkg/models"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient talks to the Gemini generateContent API.
type GeminiClient struct {
	BaseURL string
	HTTP    *http.Client

	builder *prompt.Builder
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiRequest struct {
	SystemInstruction geminiContent          `json:"systemInstruction"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

// NewGeminiClient creates a client. An empty baseURL uses the public API and
// a nil httpClient uses the default retrying client.
func NewGeminiClient(baseURL string, httpClient *http.Client) *GeminiClient {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	return &GeminiClient{
		BaseURL: baseURL,
		HTTP:    clientOrDefault(httpClient),
		builder: prompt.NewBuilder(),
	}
}

func (c *GeminiClient) ID() models.Provider {
	return models.ProviderGemini
}

func (c *GeminiClient) Run(ctx context.Context, spec *models.TaskSpec, credential string) (*models.ProviderResult, error) {
	model := models.DefaultModel(models.ProviderGemini, spec.Tier)
	reqBody := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: c.builder.SystemPrompt(spec)}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: c.builder.UserPrompt(spec)}}},
		},
		GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.BaseURL, "/"), model)
	body, status, err := postJSON(ctx, c.HTTP, url, map[string]string{
		"x-goog-api-key": credential,
	}, reqBody)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if !isSuccess(status) {
		return nil, statusError("Gemini", status, body, "status")
	}

	content, err := replyText("Gemini", body, "candidates.0.content.parts.0.text")
	if err != nil {
		return nil, err
	}
	results, err := ParseResponse(content)
	if err != nil {
		return nil, err
	}
	return &models.ProviderResult{Results: results, Model: model}, nil
}
