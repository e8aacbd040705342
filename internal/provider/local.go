package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/ShayCichocki/linguist/pkg/models"
)

// LocalBackend is a translation engine running next to the process. Both
// calls are independent and may fail on their own.
type LocalBackend interface {
	// DetectLanguage returns the base language tag of text, or "" when
	// detection is inconclusive.
	DetectLanguage(ctx context.Context, text string) (string, error)
	// Translate translates text between two base language tags.
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// LocalClient serves the local provider. Unlike the network clients it has
// no retry path, and it translates every target language concurrently,
// failing the whole call on the first sub-translation error.
type LocalClient struct {
	Backend LocalBackend
}

// NewLocalClient creates a client over backend.
func NewLocalClient(backend LocalBackend) *LocalClient {
	return &LocalClient{Backend: backend}
}

func (c *LocalClient) ID() models.Provider {
	return models.ProviderLocal
}

func (c *LocalClient) Run(ctx context.Context, spec *models.TaskSpec, _ string) (*models.ProviderResult, error) {
	if spec.Mode != models.ModeTranslate {
		return nil, &ServiceError{Message: fmt.Sprintf("local translation does not support %s mode", spec.Mode)}
	}

	source, err := c.resolveSource(ctx, spec)
	if err != nil {
		return nil, err
	}

	results := make([]models.OutputResult, len(spec.Languages))
	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range spec.Languages {
		i, lang := i, lang
		g.Go(func() error {
			target := normalizeTag(lang.ID)
			if target == "" {
				return &ServiceError{Message: fmt.Sprintf("local translation does not support %s", lang.Name)}
			}
			text, err := c.Backend.Translate(gctx, spec.InputText, source, target)
			if err != nil {
				return localError(err)
			}
			results[i] = models.OutputResult{Language: lang, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, Cancelled(ctx.Err())
		}
		return nil, err
	}

	return &models.ProviderResult{Results: results, Model: models.LocalModel}, nil
}

func (c *LocalClient) resolveSource(ctx context.Context, spec *models.TaskSpec) (string, error) {
	if tag := normalizeTag(spec.SourceLanguage); tag != "" {
		return tag, nil
	}

	detected, err := c.Backend.DetectLanguage(ctx, spec.InputText)
	if err != nil {
		if ctx.Err() != nil {
			return "", Cancelled(ctx.Err())
		}
		return "", localError(err)
	}
	if tag := normalizeTag(detected); tag != "" {
		return tag, nil
	}
	return "", &ServiceError{Message: "cannot identify language of the input text"}
}

// normalizeTag reduces a language code to its lower-case base tag.
// Empty, "auto" and unparseable codes yield "".
func normalizeTag(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "auto" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

func localError(err error) error {
	var svc *ServiceError
	if errors.As(err, &svc) {
		return svc
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ServiceError{Message: fmt.Sprintf("local translation failed: %v", err)}
}
