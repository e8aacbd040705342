package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ShayCichocki/linguist/internal/metrics"
	"github.com/ShayCichocki/linguist/internal/provider"
	"github.com/ShayCichocki/linguist/pkg/models"
)

// fakeCreds is a map-backed CredentialResolver.
type fakeCreds map[models.Provider]string

func (f fakeCreds) Has(p models.Provider) bool {
	if !p.RequiresCredential() {
		return p.Concrete()
	}
	return f[p] != ""
}

func (f fakeCreds) Read(p models.Provider) (string, bool) {
	v, ok := f[p]
	return v, ok
}

// fakeClient records calls and delegates to fn.
type fakeClient struct {
	id models.Provider
	fn func(ctx context.Context, spec *models.TaskSpec, credential string) (*models.ProviderResult, error)

	mu          sync.Mutex
	credentials []string
}

func (f *fakeClient) ID() models.Provider {
	return f.id
}

func (f *fakeClient) Run(ctx context.Context, spec *models.TaskSpec, credential string) (*models.ProviderResult, error) {
	f.mu.Lock()
	f.credentials = append(f.credentials, credential)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, spec, credential)
	}
	return &models.ProviderResult{
		Results: []models.OutputResult{{Language: models.English, Text: string(f.id) + " says hi"}},
		Model:   string(f.id) + "-model",
	}, nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.credentials)
}

func newClients() map[models.Provider]*fakeClient {
	out := map[models.Provider]*fakeClient{}
	for _, p := range models.ConcreteProviders {
		out[p] = &fakeClient{id: p}
	}
	return out
}

func newTestRunner(t *testing.T, clients map[models.Provider]*fakeClient, creds fakeCreds, opts ...Option) *Runner {
	t.Helper()
	list := make([]provider.Client, 0, len(clients))
	for _, c := range clients {
		list = append(list, c)
	}
	return New(RequiredConfig{Registry: provider.NewRegistry(list...), Credentials: creds}, opts...)
}

func testSpec() *models.TaskSpec {
	return &models.TaskSpec{
		InputText: "Please send the report by Friday.",
		Mode:      models.ModeTranslate,
		Intent:    models.IntentEmail,
		Tone:      models.ToneProfessional,
		Provider:  models.ProviderAuto,
		Tier:      models.TierBalanced,
		Languages: []models.Language{models.English},
	}
}

func TestRunner_AutoResolution(t *testing.T) {
	tests := []struct {
		name  string
		creds fakeCreds
		want  models.Provider
	}{
		{"no credentials falls back to local", fakeCreds{}, models.ProviderLocal},
		{"highest priority wins", fakeCreds{models.ProviderOpenAI: "sk", models.ProviderGemini: "g"}, models.ProviderOpenAI},
		{"claude before gemini", fakeCreds{models.ProviderClaude: "a", models.ProviderGemini: "g"}, models.ProviderClaude},
		{"only gemini", fakeCreds{models.ProviderGemini: "g"}, models.ProviderGemini},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients := newClients()
			r := newTestRunner(t, clients, tt.creds)

			out, err := r.Run(context.Background(), testSpec())
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if out.Provider != tt.want {
				t.Errorf("Provider = %q, want %q", out.Provider, tt.want)
			}
			if clients[tt.want].calls() != 1 {
				t.Errorf("%s calls = %d, want 1", tt.want, clients[tt.want].calls())
			}
		})
	}
}

func TestRunner_RunCredentials(t *testing.T) {
	clients := newClients()
	r := newTestRunner(t, clients, fakeCreds{models.ProviderClaude: "sk-ant"})

	spec := testSpec()
	spec.Provider = models.ProviderClaude
	if _, err := r.Run(context.Background(), spec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := clients[models.ProviderClaude].credentials; len(got) != 1 || got[0] != "sk-ant" {
		t.Errorf("claude credentials = %v, want [sk-ant]", got)
	}

	spec.Provider = models.ProviderLocal
	if _, err := r.Run(context.Background(), spec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := clients[models.ProviderLocal].credentials; len(got) != 1 || got[0] != provider.NoCredential {
		t.Errorf("local credentials = %v, want [%s]", got, provider.NoCredential)
	}
}

func TestRunner_RunOutput(t *testing.T) {
	r := newTestRunner(t, newClients(), fakeCreds{models.ProviderOpenAI: "sk"})

	out, err := r.Run(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Model != "openai-model" {
		t.Errorf("Model = %q, want openai-model", out.Model)
	}
	if out.TokenEstimate != 24 {
		t.Errorf("TokenEstimate = %d, want 24", out.TokenEstimate)
	}
	if len(out.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(out.Results))
	}
}

func TestRunner_RunErrors(t *testing.T) {
	serviceErr := &provider.ServiceError{Message: "Gemini HTTP 500"}

	t.Run("missing key", func(t *testing.T) {
		clients := newClients()
		r := newTestRunner(t, clients, fakeCreds{models.ProviderGemini: "   "})
		spec := testSpec()
		spec.Provider = models.ProviderGemini

		_, err := r.Run(context.Background(), spec)
		var missing *provider.MissingKeyError
		if !errors.As(err, &missing) || missing.Provider != models.ProviderGemini {
			t.Fatalf("err = %v, want MissingKeyError for gemini", err)
		}
		if clients[models.ProviderGemini].calls() != 0 {
			t.Error("client must not be called without a credential")
		}
	})

	t.Run("invalid spec", func(t *testing.T) {
		r := newTestRunner(t, newClients(), fakeCreds{})
		spec := testSpec()
		spec.Languages = nil

		if _, err := r.Run(context.Background(), spec); !errors.Is(err, models.ErrInvalidSpec) {
			t.Errorf("err = %v, want ErrInvalidSpec", err)
		}
	})

	t.Run("no client", func(t *testing.T) {
		clients := newClients()
		delete(clients, models.ProviderLocal)
		r := newTestRunner(t, clients, fakeCreds{})

		if _, err := r.Run(context.Background(), testSpec()); !errors.Is(err, ErrNoClient) {
			t.Errorf("err = %v, want ErrNoClient", err)
		}
	})

	t.Run("provider error propagates unchanged", func(t *testing.T) {
		clients := newClients()
		clients[models.ProviderGemini].fn = func(context.Context, *models.TaskSpec, string) (*models.ProviderResult, error) {
			return nil, serviceErr
		}
		r := newTestRunner(t, clients, fakeCreds{models.ProviderGemini: "g"})

		_, err := r.Run(context.Background(), testSpec())
		if err != serviceErr {
			t.Errorf("err = %v, want %v", err, serviceErr)
		}
	})
}

func TestRunner_RunSingle(t *testing.T) {
	clients := newClients()
	r := newTestRunner(t, clients, fakeCreds{models.ProviderOpenAI: "sk"})

	res, err := r.RunSingle(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("RunSingle failed: %v", err)
	}
	if res.Text != "openai says hi" {
		t.Errorf("Text = %q", res.Text)
	}

	clients[models.ProviderOpenAI].fn = func(context.Context, *models.TaskSpec, string) (*models.ProviderResult, error) {
		return &models.ProviderResult{Model: "m"}, nil
	}
	if _, err := r.RunSingle(context.Background(), testSpec()); !errors.Is(err, provider.ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestRunner_RequestTimeout(t *testing.T) {
	clients := newClients()
	clients[models.ProviderOpenAI].fn = func(ctx context.Context, _ *models.TaskSpec, _ string) (*models.ProviderResult, error) {
		<-ctx.Done()
		return nil, provider.Cancelled(ctx.Err())
	}
	r := newTestRunner(t, clients, fakeCreds{models.ProviderOpenAI: "sk"}, WithRequestTimeout(20*time.Millisecond))

	_, err := r.Run(context.Background(), testSpec())
	var netErr *provider.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if provider.IsCancelled(err) {
		t.Error("a timeout must not be reported as cancellation")
	}
}

func TestRunner_RunCancelled(t *testing.T) {
	clients := newClients()
	clients[models.ProviderOpenAI].fn = func(ctx context.Context, _ *models.TaskSpec, _ string) (*models.ProviderResult, error) {
		<-ctx.Done()
		return nil, &provider.NetworkError{Err: ctx.Err()}
	}
	r := newTestRunner(t, clients, fakeCreds{models.ProviderOpenAI: "sk"})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	out, err := r.Run(ctx, testSpec())
	if out != nil {
		t.Errorf("expected no output, got %+v", out)
	}
	if !errors.Is(err, provider.ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}

func TestRunner_MockMode(t *testing.T) {
	r := New(RequiredConfig{Registry: provider.NewRegistry(), Credentials: fakeCreds{}}, WithMock(true))

	out, err := r.Run(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Provider != models.ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", out.Provider)
	}

	cmp, err := r.RunCompare(context.Background(), testSpec(), nil)
	if err != nil {
		t.Fatalf("RunCompare failed: %v", err)
	}
	if len(cmp.Entries) != len(models.ConcreteProviders) {
		t.Errorf("len(Entries) = %d, want %d", len(cmp.Entries), len(models.ConcreteProviders))
	}
}

func TestRunner_ProviderMetrics(t *testing.T) {
	clients := newClients()
	clients[models.ProviderGemini].fn = func(context.Context, *models.TaskSpec, string) (*models.ProviderResult, error) {
		return nil, &provider.ServiceError{Message: "Gemini HTTP 503"}
	}
	r := newTestRunner(t, clients, fakeCreds{models.ProviderGemini: "g"})

	before := testutil.ToFloat64(metrics.ProviderCalls.WithLabelValues("gemini", "service_error"))
	_, _ = r.Run(context.Background(), testSpec())
	after := testutil.ToFloat64(metrics.ProviderCalls.WithLabelValues("gemini", "service_error"))
	if after != before+1 {
		t.Errorf("counter: got %f, want %f", after, before+1)
	}
}

func TestRunner_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	r := newTestRunner(t, newClients(), fakeCreds{models.ProviderOpenAI: "sk"}, WithTracerProvider(tp))

	if _, err := r.RunCompare(context.Background(), testSpec(), nil); err != nil {
		t.Fatalf("RunCompare failed: %v", err)
	}

	counts := map[string]int{}
	for _, s := range sr.Ended() {
		counts[s.Name()]++
	}
	if counts["runner.compare"] != 1 {
		t.Errorf("runner.compare spans = %d, want 1", counts["runner.compare"])
	}
	if counts["runner.compare.unit"] != 2 {
		t.Errorf("runner.compare.unit spans = %d, want 2", counts["runner.compare.unit"])
	}
}

var _ CredentialResolver = fakeCreds{}
