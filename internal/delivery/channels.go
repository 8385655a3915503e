package delivery

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/garagebill/garagebill/internal/render"
	"github.com/garagebill/garagebill/internal/session"
	"github.com/garagebill/garagebill/internal/types"
)

// DiskSaver writes finished documents into a configured output directory.
// This is the desktop-like direct save channel.
type DiskSaver struct {
	OutputDir string
}

func (s *DiskSaver) Save(_ context.Context, doc *render.Document, fileName string) (string, error) {
	path := filepath.Join(s.OutputDir, fileName)
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// TransientOpenTTL bounds how long an opened document stays resolvable.
// The reference is transient by contract; viewers must not assume it
// outlives the session.
const TransientOpenTTL = 10 * time.Minute

// SessionOpener parks the document in the session store under a one-time
// token and returns the URL the viewing context should open.
type SessionOpener struct {
	Store session.Store
}

func (o *SessionOpener) Open(ctx context.Context, doc *render.Document, fileName string) (string, error) {
	token := types.GenerateUUID()
	o.Store.Set(ctx, session.PrefixDocument+token, doc, TransientOpenTTL)
	return "/v1/documents/" + token, nil
}

// Resolve fetches a previously opened document by token. The bool is false
// once the reference has expired.
func (o *SessionOpener) Resolve(ctx context.Context, token string) (*render.Document, bool) {
	v, ok := o.Store.Get(ctx, session.PrefixDocument+token)
	if !ok {
		return nil, false
	}
	doc, ok := v.(*render.Document)
	return doc, ok
}
