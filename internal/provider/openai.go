package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/ShayCichocki/linguist/internal/prompt"
	"github.com/ShayCichocki/linguist/pkg/models"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com"
	openAITemperature    = 0.2
)

// OpenAIClient talks to the OpenAI chat completions API.
type OpenAIClient struct {
	BaseURL string
	HTTP    *http.Client

	builder *prompt.Builder
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIChatRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float64              `json:"temperature"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

// NewOpenAIClient creates a client. An empty baseURL uses the public API and
// a nil httpClient uses the default retrying client.
func NewOpenAIClient(baseURL string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	return &OpenAIClient{
		BaseURL: baseURL,
		HTTP:    clientOrDefault(httpClient),
		builder: prompt.NewBuilder(),
	}
}

func (c *OpenAIClient) ID() models.Provider {
	return models.ProviderOpenAI
}

func (c *OpenAIClient) Run(ctx context.Context, spec *models.TaskSpec, credential string) (*models.ProviderResult, error) {
	model := models.DefaultModel(models.ProviderOpenAI, spec.Tier)
	reqBody := openAIChatRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: c.builder.SystemPrompt(spec)},
			{Role: "user", Content: c.builder.UserPrompt(spec)},
		},
		Temperature:    openAITemperature,
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/chat/completions"
	body, status, err := postJSON(ctx, c.HTTP, url, map[string]string{
		"Authorization": "Bearer " + credential,
	}, reqBody)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if !isSuccess(status) {
		return nil, statusError("OpenAI", status, body, "type", "code")
	}

	content, err := replyText("OpenAI", body, "choices.0.message.content")
	if err != nil {
		return nil, err
	}
	results, err := ParseResponse(content)
	if err != nil {
		return nil, err
	}
	return &models.ProviderResult{Results: results, Model: model}, nil
}
