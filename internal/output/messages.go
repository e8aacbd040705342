// Package output is the presentation boundary: it maps typed provider errors
// to short user-facing messages and renders run, compare and history results
// for the terminal.
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/linguist/internal/provider"
	"github.com/ShayCichocki/linguist/pkg/models"
)

const (
	msgNetwork    = "Network error. Try again."
	msgInvalidKey = "Invalid API key."
	msgRateLimit  = "Rate limit hit. Try again."
	msgCancelled  = "Cancelled."
	msgGeneric    = "Something went wrong."
)

// UserMessage maps an error from a run or compare call to a short message.
// Service errors are inspected for 401 and 429 patterns.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var missing *provider.MissingKeyError
	if errors.As(err, &missing) {
		return missingKeyMessage(missing.Provider)
	}
	if errors.Is(err, models.ErrInvalidSpec) {
		return err.Error()
	}

	return message(provider.Kind(err), err.Error())
}

// EntryMessage maps a failed compare entry to a short message. It returns ""
// for entries that succeeded.
func EntryMessage(e models.CompareEntry) string {
	if !e.Failed() {
		return ""
	}
	if e.ErrorKind == "missing_key" {
		return missingKeyMessage(e.Provider)
	}
	return message(e.ErrorKind, e.Error)
}

func message(kind, text string) string {
	switch kind {
	case "cancelled":
		return msgCancelled
	case "network":
		return msgNetwork
	case "service_error":
		lower := strings.ToLower(text)
		if strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") {
			return msgInvalidKey
		}
		if strings.Contains(lower, "429") || strings.Contains(lower, "rate") {
			return msgRateLimit
		}
		return msgGeneric
	case "invalid_response", "decoding_failed":
		return msgGeneric
	default:
		if strings.Contains(strings.ToLower(text), "cancel") {
			return msgCancelled
		}
		return msgGeneric
	}
}

func missingKeyMessage(p models.Provider) string {
	return fmt.Sprintf("API key not set for %s. Run `linguist config providers.%s.api_key <key>`.", p.DisplayName(), p)
}
