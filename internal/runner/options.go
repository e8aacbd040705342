package runner

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ShayCichocki/linguist/internal/provider"
	"github.com/ShayCichocki/linguist/pkg/models"
)

// CredentialResolver answers credential questions for providers. It must be
// safe for concurrent reads. Read's ok is false when nothing is stored,
// which is distinct from a stored empty value.
type CredentialResolver interface {
	Has(p models.Provider) bool
	Read(p models.Provider) (string, bool)
}

// RequiredConfig contains the minimal required configuration for a Runner.
// All fields are required and have no defaults.
type RequiredConfig struct {
	// Registry holds the client for every provider that can be executed.
	Registry *provider.Registry
	// Credentials resolves provider credentials.
	Credentials CredentialResolver
}

// Option configures a Runner. Use With* functions to create Options.
type Option func(*runnerOptions)

type runnerOptions struct {
	useMock        bool
	maxParallel    int
	requestTimeout time.Duration
	tracerProvider trace.TracerProvider
}

// WithMock replaces every provider with a deterministic mock client and
// treats every provider as credentialed.
func WithMock(enabled bool) Option {
	return func(o *runnerOptions) { o.useMock = enabled }
}

// WithMaxParallel bounds the number of compare units running at once.
// Zero or less runs every unit at once.
func WithMaxParallel(n int) Option {
	return func(o *runnerOptions) { o.maxParallel = n }
}

// WithRequestTimeout bounds each provider call. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *runnerOptions) { o.requestTimeout = d }
}

// WithTracerProvider sets the tracer provider used for run spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *runnerOptions) { o.tracerProvider = tp }
}
