// Package translate is the local translation backend: language detection
// runs in-process and translation is delegated to a LibreTranslate-compatible
// server on the same host.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is where a locally running LibreTranslate listens.
	DefaultBaseURL = "http://127.0.0.1:5000"
	defaultTimeout = 30 * time.Second
)

// Engine implements provider.LocalBackend.
type Engine struct {
	BaseURL string
	HTTP    *http.Client
	// MinConfidence is the lowest detector confidence accepted. Zero means
	// the detector's own reliability threshold.
	MinConfidence float64
}

// New creates an engine. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, minConfidence float64) *Engine {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Engine{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTP:          &http.Client{Timeout: defaultTimeout},
		MinConfidence: minConfidence,
	}
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when the
// detector is not confident enough.
func (e *Engine) DetectLanguage(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	info := whatlanggo.Detect(text)
	if e.MinConfidence > 0 {
		if info.Confidence < e.MinConfidence {
			return "", nil
		}
	} else if !info.IsReliable() {
		return "", nil
	}
	return info.Lang.Iso6391(), nil
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

// Translate translates text from source to target. Both are base tags.
func (e *Engine) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target {
		return text, nil
	}

	body, err := json.Marshal(translateRequest{Q: text, Source: source, Target: target, Format: "text"})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("translate %s->%s: %w", source, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(raw, "error"); msg.Exists() && msg.String() != "" {
			return "", fmt.Errorf("translate %s->%s: %s", source, target, msg.String())
		}
		return "", fmt.Errorf("translate %s->%s: unexpected status %d", source, target, resp.StatusCode)
	}

	out := gjson.GetBytes(raw, "translatedText")
	if !out.Exists() {
		return "", fmt.Errorf("translate %s->%s: reply has no translatedText", source, target)
	}
	return out.String(), nil
}
