package server

import (
	"log"
	"net/http"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/internal/metrics"
	"github.com/ShayCichocki/linguist/internal/output"
	"github.com/ShayCichocki/linguist/pkg/models"
)

type compareRequest struct {
	models.TaskRequest
	// Providers restricts the candidate set. Empty uses every credentialed provider.
	Providers []string `json:"providers,omitempty"`
	// RetryFailed re-runs failed units once and merges the fresh entries.
	RetryFailed bool `json:"retry_failed,omitempty"`
}

type compareResponse struct {
	*models.CompareRunOutput
	// Messages holds a short user message per failed provider.
	Messages map[models.Provider]string `json:"messages,omitempty"`
}

type providerStatus struct {
	ID           models.Provider             `json:"id"`
	Name         string                      `json:"name"`
	Credentialed bool                        `json:"credentialed"`
	Source       string                      `json:"source"`
	Models       map[models.ModelTier]string `json:"models"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[models.TaskRequest](w, r)
	if !ok {
		return
	}
	spec, err := req.WithDefaults(s.defaults).Spec()
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	out, err := s.runner.Run(r.Context(), spec)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	s.record(func() (*history.Entry, error) { return history.FromRun(spec, out) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[compareRequest](w, r)
	if !ok {
		return
	}
	spec, err := req.WithDefaults(s.defaults).Spec()
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	var providers []models.Provider
	if len(req.Providers) > 0 {
		if providers, err = models.ParseProviders(req.Providers); err != nil {
			s.writeRunError(w, r, err)
			return
		}
	}

	out, err := s.runner.RunCompare(r.Context(), spec, providers)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	if req.RetryFailed && len(models.FailedProviders(out.Entries)) > 0 {
		if out, err = s.runner.RetryFailed(r.Context(), spec, out); err != nil {
			s.writeRunError(w, r, err)
			return
		}
	}

	s.record(func() (*history.Entry, error) { return history.FromCompare(spec, out) })

	resp := compareResponse{CompareRunOutput: out}
	for i, e := range out.Entries {
		if !e.Failed() {
			continue
		}
		if resp.Messages == nil {
			resp.Messages = map[models.Provider]string{}
		}
		resp.Messages[e.Provider] = output.EntryMessage(e)
		out.Entries[i].Error = s.redact(e.Error)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	list := make([]providerStatus, 0, len(models.ConcreteProviders))
	for _, p := range models.ConcreteProviders {
		has := s.creds.Has(p)
		gauge := 0.0
		if has {
			gauge = 1
		}
		metrics.ProviderCredentialed.WithLabelValues(string(p)).Set(gauge)

		tiers := make(map[models.ModelTier]string, len(models.AllTiers))
		for _, t := range models.AllTiers {
			tiers[t] = models.DefaultModel(p, t)
		}
		list = append(list, providerStatus{
			ID:           p,
			Name:         p.DisplayName(),
			Credentialed: has,
			Source:       s.creds.Source(p),
			Models:       tiers,
		})
	}
	writeJSON(w, http.StatusOK, list)
}

// record saves a history entry when a recorder is configured. Failures are
// logged and never fail the request.
func (s *Server) record(build func() (*history.Entry, error)) {
	if s.history == nil {
		return
	}
	e, err := build()
	if err == nil {
		err = s.history.Save(e)
	}
	if err != nil {
		log.Printf("[server] history: %v", err)
	}
}
