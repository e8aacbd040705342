package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// postJSON marshals payload and POSTs it through client.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return performRequest(client, req)
}

// replyText pulls the single text blob out of a successful reply body.
// A body that is not JSON, or lacks the path, is ErrInvalidResponse.
func replyText(vendor string, body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: %s reply is not JSON", ErrInvalidResponse, vendor)
	}
	v := gjson.GetBytes(body, path)
	if !v.Exists() || v.Type != gjson.String {
		return "", fmt.Errorf("%w: %s reply has no %s", ErrInvalidResponse, vendor, path)
	}
	return v.String(), nil
}

// errorDetail extracts "message (k: v, k: v)" from a vendor error body.
// It returns "" when the body has no error.message.
func errorDetail(body []byte, fields ...string) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	msg := gjson.GetBytes(body, "error.message")
	if !msg.Exists() || msg.String() == "" {
		return ""
	}

	var extras []string
	for _, f := range fields {
		if v := gjson.GetBytes(body, "error."+f); v.Exists() && v.String() != "" {
			extras = append(extras, fmt.Sprintf("%s: %s", f, v.String()))
		}
	}
	if len(extras) == 0 {
		return msg.String()
	}
	return fmt.Sprintf("%s (%s)", msg.String(), strings.Join(extras, ", "))
}

// statusError builds the ServiceError for a non-2xx reply.
func statusError(vendor string, status int, body []byte, fields ...string) error {
	if detail := errorDetail(body, fields...); detail != "" {
		return &ServiceError{Message: fmt.Sprintf("%s HTTP %d: %s", vendor, status, detail)}
	}
	return &ServiceError{Message: fmt.Sprintf("%s HTTP %d", vendor, status)}
}

func clientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return NewHTTPClient(nil, DefaultRetryPolicy())
}
