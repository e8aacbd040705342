package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ShayCichocki/linguist/internal/output"
	"github.com/ShayCichocki/linguist/internal/provider"
	"github.com/ShayCichocki/linguist/pkg/models"
)

// statusClientClosedRequest is written when the caller went away mid-run.
const statusClientClosedRequest = 499

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeRunError maps a run error onto a status and a typed body. Cancelled
// runs get no body since nobody is waiting for it.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	if provider.IsCancelled(err) {
		log.Printf("[server] %s cancelled (id=%s)", r.URL.Path, chimw.GetReqID(r.Context()))
		w.WriteHeader(statusClientClosedRequest)
		return
	}

	kind := provider.Kind(err)
	writeJSON(w, statusFor(err, kind), errorResponse{
		Error:  output.UserMessage(err),
		Kind:   kind,
		Detail: s.redact(err.Error()),
	})
}

func statusFor(err error, kind string) int {
	switch {
	case errors.Is(err, models.ErrInvalidSpec):
		return http.StatusBadRequest
	case kind == "missing_key":
		return http.StatusUnprocessableEntity
	case kind == "network", kind == "service_error", kind == "invalid_response", kind == "decoding_failed":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
