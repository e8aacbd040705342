// Package provider implements the text-generation backends and the shared
// machinery they use: the retrying transport, reply parsing and the error
// taxonomy surfaced to callers.
package provider

import (
	"context"
	"sort"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// NoCredential is passed to providers that do not need a credential.
const NoCredential = "system"

// Client performs exactly one provider call for a task.
type Client interface {
	// ID returns the provider this client serves.
	ID() models.Provider
	// Run executes spec. It fails with *NetworkError, *ServiceError,
	// ErrInvalidResponse, ErrDecodingFailed or a cancellation error.
	Run(ctx context.Context, spec *models.TaskSpec, credential string) (*models.ProviderResult, error)
}

// Registry is a closed, read-only map from provider to client built once at
// startup. It is safe for concurrent use.
type Registry struct {
	clients map[models.Provider]Client
}

// NewRegistry builds a registry. A later client with the same ID replaces
// an earlier one.
func NewRegistry(clients ...Client) *Registry {
	m := make(map[models.Provider]Client, len(clients))
	for _, c := range clients {
		m[c.ID()] = c
	}
	return &Registry{clients: m}
}

// Get returns the client for p.
func (r *Registry) Get(p models.Provider) (Client, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.clients[p]
	return c, ok
}

// Providers returns the registered providers in sorted order.
func (r *Registry) Providers() []models.Provider {
	out := make([]models.Provider, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
