// Package runner is the task orchestrator: it resolves which provider runs
// a task, executes single-provider runs and fans compare runs out across
// providers, isolating each provider's failure from the others.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ShayCichocki/linguist/internal/metrics"
	"github.com/ShayCichocki/linguist/internal/prompt"
	"github.com/ShayCichocki/linguist/internal/provider"
	"github.com/ShayCichocki/linguist/pkg/models"
)

const (
	tracerName = "github.com/ShayCichocki/linguist/internal/runner"
	// MockCredential is handed to every client in mock mode.
	MockCredential = "mock"
)

// ErrNoClient is returned when the resolved provider has no registered client.
var ErrNoClient = errors.New("no client registered for provider")

// Runner executes tasks. It holds no mutable state, so one Runner may serve
// any number of concurrent calls.
type Runner struct {
	registry       *provider.Registry
	credentials    CredentialResolver
	builder        *prompt.Builder
	useMock        bool
	maxParallel    int
	requestTimeout time.Duration
	tracer         trace.Tracer
}

// compareUnit is one provider call within a compare run.
type compareUnit struct {
	provider   models.Provider
	client     provider.Client
	credential string
}

// New creates a Runner.
func New(req RequiredConfig, opts ...Option) *Runner {
	o := &runnerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	registry := req.Registry
	if o.useMock {
		mocks := make([]provider.Client, 0, len(models.ConcreteProviders))
		for _, p := range models.ConcreteProviders {
			mocks = append(mocks, provider.NewMockClient(p))
		}
		registry = provider.NewRegistry(mocks...)
		log.Printf("[runner] mock providers enabled")
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Runner{
		registry:       registry,
		credentials:    req.Credentials,
		builder:        prompt.NewBuilder(),
		useMock:        o.useMock,
		maxParallel:    o.maxParallel,
		requestTimeout: o.requestTimeout,
		tracer:         tp.Tracer(tracerName),
	}
}

// Resolve returns the concrete provider a spec would run on. Auto picks the
// first credentialed network provider in priority order and falls back to
// the local provider when none is credentialed.
func (r *Runner) Resolve(spec *models.TaskSpec) models.Provider {
	if spec.Provider != models.ProviderAuto {
		return spec.Provider
	}
	if r.useMock {
		return models.ProviderOpenAI
	}
	for _, p := range models.NetworkProviders {
		if r.credentials.Has(p) {
			return p
		}
	}
	return models.ProviderLocal
}

// Run executes spec on a single provider. Provider errors are returned
// unchanged; a cancelled ctx yields an error matching provider.ErrCancelled.
func (r *Runner) Run(ctx context.Context, spec *models.TaskSpec) (*models.TaskRunOutput, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "runner.run", trace.WithAttributes(
		attribute.String("task.mode", string(spec.Mode)),
		attribute.String("task.provider", string(spec.Provider)),
		attribute.String("task.tier", string(spec.Tier)),
	))
	defer span.End()
	metrics.InputChars.Observe(float64(utf8.RuneCountInString(spec.InputText)))

	out, err := r.run(ctx, spec)
	if err != nil {
		recordSpanError(span, err)
		metrics.Runs.WithLabelValues("run", resultLabel(err)).Inc()
		return nil, err
	}
	span.SetAttributes(attribute.String("task.resolved_provider", string(out.Provider)))
	metrics.Runs.WithLabelValues("run", "ok").Inc()
	return out, nil
}

func (r *Runner) run(ctx context.Context, spec *models.TaskSpec) (*models.TaskRunOutput, error) {
	p := r.Resolve(spec)
	if spec.Provider == models.ProviderAuto {
		log.Printf("[runner] auto resolved to %s", p)
	}

	credential, err := r.credential(p)
	if err != nil {
		return nil, err
	}
	client, ok := r.registry.Get(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoClient, p)
	}

	start := time.Now()
	res, err := r.call(ctx, client, spec, credential)
	latency := time.Since(start)
	if err != nil {
		return nil, err
	}

	return &models.TaskRunOutput{
		Results:       res.Results,
		Provider:      p,
		Model:         res.Model,
		TokenEstimate: r.builder.EstimateTokens(spec.InputText),
		LatencyMs:     latency.Milliseconds(),
	}, nil
}

// RunSingle runs spec and returns only its first result. A provider that
// returned no results yields provider.ErrInvalidResponse.
func (r *Runner) RunSingle(ctx context.Context, spec *models.TaskSpec) (models.OutputResult, error) {
	out, err := r.Run(ctx, spec)
	if err != nil {
		return models.OutputResult{}, err
	}
	if len(out.Results) == 0 {
		return models.OutputResult{}, fmt.Errorf("%w: %s returned no results", provider.ErrInvalidResponse, out.Provider)
	}
	return out.Results[0], nil
}

// RunCompare executes spec on several providers concurrently. A nil
// providers list means every credentialed network provider plus the local
// provider. Explicit lists drop providers that are not executable.
//
// Per-provider failures are captured in their entries and never fail the
// call. The call fails with *provider.MissingKeyError when no provider is
// left to run, and with a cancellation error when ctx is cancelled, in
// which case no entries are returned.
func (r *Runner) RunCompare(ctx context.Context, spec *models.TaskSpec, providers []models.Provider) (*models.CompareRunOutput, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	units := r.compareUnits(providers)
	if len(units) == 0 {
		metrics.Runs.WithLabelValues("compare", "missing_key").Inc()
		return nil, &provider.MissingKeyError{Provider: models.ProviderOpenAI}
	}

	ctx, span := r.tracer.Start(ctx, "runner.compare", trace.WithAttributes(
		attribute.String("task.mode", string(spec.Mode)),
		attribute.Int("compare.units", len(units)),
	))
	defer span.End()
	metrics.InputChars.Observe(float64(utf8.RuneCountInString(spec.InputText)))

	p := pool.NewWithResults[models.CompareEntry]()
	if r.maxParallel > 0 {
		p = p.WithMaxGoroutines(r.maxParallel)
	}
	for _, u := range units {
		u := u
		p.Go(func() models.CompareEntry {
			return r.runUnit(ctx, spec, u)
		})
	}
	entries := p.Wait()

	if err := ctx.Err(); err != nil {
		cancelled := provider.Cancelled(err)
		recordSpanError(span, cancelled)
		metrics.Runs.WithLabelValues("compare", "cancelled").Inc()
		return nil, cancelled
	}

	failed := len(models.FailedProviders(entries))
	span.SetAttributes(attribute.Int("compare.failed", failed))
	metrics.Runs.WithLabelValues("compare", "ok").Inc()

	return &models.CompareRunOutput{
		Entries:       entries,
		TokenEstimate: r.builder.EstimateTokens(spec.InputText),
	}, nil
}

// RetryFailed re-runs only the providers whose entries in prev failed and
// merges the fresh entries over the stale ones. Entries that were not
// retried are left untouched.
//
// If the retry cannot run at all, the error is recorded on each retried
// entry and prev's other entries are kept. Only cancellation fails the call.
func (r *Runner) RetryFailed(ctx context.Context, spec *models.TaskSpec, prev *models.CompareRunOutput) (*models.CompareRunOutput, error) {
	if prev == nil {
		return nil, fmt.Errorf("%w: no compare output to retry", models.ErrInvalidSpec)
	}
	failed := models.FailedProviders(prev.Entries)
	if len(failed) == 0 {
		return prev, nil
	}
	log.Printf("[runner] retrying failed providers: %v", failed)

	fresh, err := r.RunCompare(ctx, spec, failed)
	if provider.IsCancelled(err) {
		return nil, err
	}
	if err != nil {
		log.Printf("[runner] retry failed: %v", err)
		return &models.CompareRunOutput{
			Entries:       stampFailure(prev.Entries, err),
			TokenEstimate: prev.TokenEstimate,
		}, nil
	}
	return &models.CompareRunOutput{
		Entries:       models.MergeCompareEntries(prev.Entries, fresh.Entries),
		TokenEstimate: fresh.TokenEstimate,
	}, nil
}

// stampFailure returns a copy of entries with err recorded on every failed one.
func stampFailure(entries []models.CompareEntry, err error) []models.CompareEntry {
	out := make([]models.CompareEntry, len(entries))
	for i, e := range entries {
		if e.Failed() {
			e.Error = err.Error()
			e.ErrorKind = provider.Kind(err)
			e.Success = false
			e.Loading = false
		}
		out[i] = e
	}
	return out
}

// Candidates returns the providers a compare run would use.
func (r *Runner) Candidates(providers []models.Provider) []models.Provider {
	units := r.compareUnits(providers)
	out := make([]models.Provider, len(units))
	for i, u := range units {
		out[i] = u.provider
	}
	return out
}

func (r *Runner) compareUnits(providers []models.Provider) []compareUnit {
	if providers == nil {
		providers = r.defaultCandidates()
	}

	seen := make(map[models.Provider]bool, len(providers))
	units := make([]compareUnit, 0, len(providers))
	for _, p := range providers {
		if !p.Concrete() || seen[p] {
			continue
		}
		seen[p] = true

		client, ok := r.registry.Get(p)
		if !ok {
			continue
		}
		credential, err := r.credential(p)
		if err != nil {
			continue
		}
		units = append(units, compareUnit{provider: p, client: client, credential: credential})
	}
	return units
}

func (r *Runner) defaultCandidates() []models.Provider {
	if r.useMock {
		return models.ConcreteProviders
	}
	out := make([]models.Provider, 0, len(models.ConcreteProviders))
	for _, p := range models.NetworkProviders {
		if r.credentials.Has(p) {
			out = append(out, p)
		}
	}
	return append(out, models.ProviderLocal)
}

func (r *Runner) runUnit(ctx context.Context, spec *models.TaskSpec, u compareUnit) models.CompareEntry {
	ctx, span := r.tracer.Start(ctx, "runner.compare.unit", trace.WithAttributes(
		attribute.String("provider", string(u.provider)),
	))
	defer span.End()

	start := time.Now()
	res, err := r.call(ctx, u.client, spec, u.credential)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		recordSpanError(span, err)
		if !provider.IsCancelled(err) {
			log.Printf("[runner] compare: %s failed after %dms: %v", u.provider, latency, err)
		}
		return models.CompareEntry{
			Provider:  u.provider,
			Results:   []models.OutputResult{},
			Error:     err.Error(),
			ErrorKind: provider.Kind(err),
			Success:   false,
			LatencyMs: latency,
		}
	}

	return models.CompareEntry{
		Provider:  u.provider,
		Model:     res.Model,
		Results:   res.Results,
		Success:   true,
		LatencyMs: latency,
	}
}

// call performs one provider invocation, applying the request timeout and
// recording metrics. A timeout is reported as a network failure, while a
// cancelled parent context is reported as cancellation.
func (r *Runner) call(ctx context.Context, client provider.Client, spec *models.TaskSpec, credential string) (*models.ProviderResult, error) {
	callCtx := ctx
	if r.requestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.requestTimeout)
		defer cancel()
	}

	id := string(client.ID())
	start := time.Now()
	res, err := client.Run(callCtx, spec, credential)
	metrics.ProviderDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case ctx.Err() != nil:
			err = provider.Cancelled(ctx.Err())
		case callCtx.Err() != nil:
			err = &provider.NetworkError{Err: fmt.Errorf("request timed out after %s: %w", r.requestTimeout, callCtx.Err())}
		}
		metrics.ProviderCalls.WithLabelValues(id, provider.Kind(err)).Inc()
		return nil, err
	}
	metrics.ProviderCalls.WithLabelValues(id, "ok").Inc()
	return res, nil
}

// credential returns the credential to pass to p's client.
func (r *Runner) credential(p models.Provider) (string, error) {
	if r.useMock {
		return MockCredential, nil
	}
	if !p.RequiresCredential() {
		return provider.NoCredential, nil
	}
	v, ok := r.credentials.Read(p)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &provider.MissingKeyError{Provider: p}
	}
	return v, nil
}

func recordSpanError(span trace.Span, err error) {
	if provider.IsCancelled(err) {
		span.SetStatus(codes.Unset, "cancelled")
		span.SetAttributes(attribute.Bool("cancelled", true))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func resultLabel(err error) string {
	if k := provider.Kind(err); k != "" {
		return k
	}
	return "ok"
}
