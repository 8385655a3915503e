package testutil

import (
	"context"
	"fmt"

	"github.com/garagebill/garagebill/internal/resource"
)

// StubLoader implements resource.Loader with canned responses keyed by URL.
// URLs with no canned response fail, which is how tests exercise the
// blank-background fallback.
type StubLoader struct {
	Resources map[string]*resource.Embeddable
	Calls     []string
}

func NewStubLoader() *StubLoader {
	return &StubLoader{Resources: make(map[string]*resource.Embeddable)}
}

func (l *StubLoader) FetchAsEmbeddable(_ context.Context, url string) (*resource.Embeddable, error) {
	l.Calls = append(l.Calls, url)
	if img, ok := l.Resources[url]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("no resource at %s", url)
}
