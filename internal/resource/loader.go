package resource

import (
	"context"
	"io"
	"net/http"
	"strings"

	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Embeddable is an image ready to composite into a document.
type Embeddable struct {
	Name string
	MIME string
	Data []byte
}

// Loader fetches an optional drawable resource (page background template,
// company logo). Failures are expected and callers must treat them as
// "no resource", never as a pipeline error.
type Loader interface {
	FetchAsEmbeddable(ctx context.Context, url string) (*Embeddable, error)
}

// HTTPLoader fetches resources over HTTP with retries.
type HTTPLoader struct {
	client *retryablehttp.Client
	logger *logger.Logger
}

func NewHTTPLoader(log *logger.Logger) *HTTPLoader {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &HTTPLoader{client: client, logger: log}
}

func (l *HTTPLoader) FetchAsEmbeddable(ctx context.Context, url string) (*Embeddable, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ierr.NewError("no resource url configured").Mark(ierr.ErrSystem)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to build resource request").
			Mark(ierr.ErrSystem)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to fetch resource").
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ierr.NewError("unexpected resource status").
			WithReportableDetails(map[string]any{"status": resp.StatusCode, "url": url}).
			Mark(ierr.ErrSystem)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to read resource body").
			Mark(ierr.ErrSystem)
	}

	l.logger.Debugw("fetched resource", "url", url, "bytes", len(data))

	return &Embeddable{
		Name: url,
		MIME: resp.Header.Get("Content-Type"),
		Data: data,
	}, nil
}

// LoadOptional fetches a resource and degrades to nil on any failure. This
// is the only sanctioned way to load backgrounds and logos: a broken
// template must never abort a render.
func LoadOptional(ctx context.Context, loader Loader, url string, log *logger.Logger) *Embeddable {
	if loader == nil || strings.TrimSpace(url) == "" {
		return nil
	}
	img, err := loader.FetchAsEmbeddable(ctx, url)
	if err != nil {
		log.Warnw("resource unavailable, continuing with blank background",
			"url", url, "error", err)
		return nil
	}
	return img
}
