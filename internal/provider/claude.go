package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/ShayCichocki/linguist/internal/prompt"
	"github.com/ShayCichocki/linguist/pkg/models"
)

const claudeMaxTokens = 1024

// ClaudeConfig contains configuration for creating a ClaudeClient.
type ClaudeConfig struct {
	// BaseURL overrides the Anthropic API endpoint. Ignored for Bedrock.
	BaseURL string
	// HTTPClient carries the retrying transport. SDK retries are disabled.
	HTTPClient *http.Client
	// UseBedrock routes calls through AWS Bedrock using ambient AWS
	// credentials instead of an API key.
	UseBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// ClaudeClient talks to the Anthropic Messages API through the official SDK.
type ClaudeClient struct {
	cfg     ClaudeConfig
	builder *prompt.Builder
}

// NewClaudeClient creates a client.
func NewClaudeClient(cfg ClaudeConfig) *ClaudeClient {
	cfg.HTTPClient = clientOrDefault(cfg.HTTPClient)
	return &ClaudeClient{cfg: cfg, builder: prompt.NewBuilder()}
}

func (c *ClaudeClient) ID() models.Provider {
	return models.ProviderClaude
}

func (c *ClaudeClient) Run(ctx context.Context, spec *models.TaskSpec, credential string) (*models.ProviderResult, error) {
	model := models.DefaultModel(models.ProviderClaude, spec.Tier)
	apiModel := model
	if c.cfg.UseBedrock {
		apiModel = translateModelForBedrock(model)
	}

	sdk := anthropic.NewClient(c.options(ctx, credential)...)
	msg, err := sdk.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(apiModel),
		MaxTokens: claudeMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: c.builder.SystemPrompt(spec)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.builder.UserPrompt(spec))),
		},
	})
	if err != nil {
		return nil, claudeError(ctx, err)
	}

	content, ok := firstTextBlock(msg.Content)
	if !ok {
		return nil, fmt.Errorf("%w: Claude reply has no text block", ErrInvalidResponse)
	}
	results, err := ParseResponse(content)
	if err != nil {
		return nil, err
	}
	return &models.ProviderResult{Results: results, Model: model}, nil
}

func (c *ClaudeClient) options(ctx context.Context, credential string) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithHTTPClient(c.cfg.HTTPClient),
		option.WithMaxRetries(0),
	}

	if c.cfg.UseBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if c.cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(c.cfg.AWSRegion))
		}
		if c.cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(c.cfg.AWSProfile))
		}
		return append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	}

	opts = append(opts, option.WithAPIKey(credential))
	if c.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.cfg.BaseURL))
	}
	return opts
}

func firstTextBlock(blocks []anthropic.ContentBlockUnion) (string, bool) {
	for _, b := range blocks {
		if b.Type == "text" {
			return b.Text, true
		}
	}
	return "", false
}

// claudeError maps SDK failures onto the provider error taxonomy.
func claudeError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return statusError("Claude", apiErr.StatusCode, []byte(apiErr.RawJSON()), "type")
	}
	return transportError(ctx, err)
}

// translateModelForBedrock converts Anthropic model aliases to Bedrock
// cross-region inference profiles: us.anthropic.{model}-v1:0
func translateModelForBedrock(model string) string {
	bedrockModels := map[string]string{
		"claude-3-5-haiku-latest":  "us.anthropic.claude-3-5-haiku-20241022-v1:0",
		"claude-3-5-sonnet-latest": "us.anthropic.claude-3-5-sonnet-20241022-v2:0",
		"claude-3-5-opus-latest":   "us.anthropic.claude-opus-4-1-20250805-v1:0",
	}
	if m, ok := bedrockModels[model]; ok {
		return m
	}
	return model
}
