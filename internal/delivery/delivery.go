package delivery

import (
	"context"
	"regexp"

	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/garagebill/garagebill/internal/render"
)

// Capabilities describes the requesting platform. Detection is an input to
// this component, never something it queries itself; the UI shell (or a
// test) supplies it.
type Capabilities struct {
	Mobile         bool `json:"mobile"`
	ShareAvailable bool `json:"share_available"`
	// FileShareable reports whether the specific file type can go through
	// the native share channel.
	FileShareable bool `json:"file_shareable"`
}

// Outcome names the channel that accepted the document.
type Outcome string

const (
	OutcomeShared Outcome = "shared"
	OutcomeOpened Outcome = "opened"
	OutcomeSaved  Outcome = "saved"
)

// Result reports a successful delivery. Location is channel specific: a
// transient URL for opened, a filesystem path for saved, empty for shared.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	Location string  `json:"location,omitempty"`
}

// Sharer hands the document to a native share channel.
type Sharer interface {
	Share(ctx context.Context, doc *render.Document, fileName string) error
}

// Opener exposes the document under a transient resource reference for a
// new viewing context. The reference must not be assumed long-lived.
type Opener interface {
	Open(ctx context.Context, doc *render.Document, fileName string) (string, error)
}

// Saver writes the document to disk under the computed file name.
type Saver interface {
	Save(ctx context.Context, doc *render.Document, fileName string) (string, error)
}

// Strategy picks the delivery channel from platform capabilities with
// ordered fallback, not parallel attempts:
//
//	mobile + share available + file shareable -> share, falling through to
//	open on share failure (share is never retried)
//	mobile                                    -> open transient reference
//	otherwise                                 -> save to disk
type Strategy struct {
	sharer Sharer
	opener Opener
	saver  Saver
	logger *logger.Logger
}

func NewStrategy(sharer Sharer, opener Opener, saver Saver, log *logger.Logger) *Strategy {
	return &Strategy{
		sharer: sharer,
		opener: opener,
		saver:  saver,
		logger: log,
	}
}

// Deliver hands the finished document to the user. On failure the document
// is untouched; callers keep it so delivery can be retried without
// re-running layout.
func (s *Strategy) Deliver(ctx context.Context, doc *render.Document, fileName string, caps Capabilities) (*Result, error) {
	if doc == nil || len(doc.Bytes) == 0 {
		return nil, ierr.NewError("no document to deliver").
			WithHint("There is no finished invoice to deliver").
			Mark(ierr.ErrDelivery)
	}

	if caps.Mobile {
		if caps.ShareAvailable && caps.FileShareable && s.sharer != nil {
			if err := s.sharer.Share(ctx, doc, fileName); err == nil {
				return &Result{Outcome: OutcomeShared}, nil
			} else {
				s.logger.Warnw("share failed, falling back to open", "file", fileName, "error", err)
			}
		}
		return s.open(ctx, doc, fileName)
	}

	return s.save(ctx, doc, fileName)
}

func (s *Strategy) open(ctx context.Context, doc *render.Document, fileName string) (*Result, error) {
	if s.opener == nil {
		return nil, ierr.NewError("no opener configured").
			WithHint("The invoice could not be opened on this device").
			Mark(ierr.ErrDelivery)
	}
	url, err := s.opener.Open(ctx, doc, fileName)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to open document in a viewing context").
			WithHint("The invoice could not be opened on this device").
			Mark(ierr.ErrDelivery)
	}
	return &Result{Outcome: OutcomeOpened, Location: url}, nil
}

func (s *Strategy) save(ctx context.Context, doc *render.Document, fileName string) (*Result, error) {
	if s.saver == nil {
		return nil, ierr.NewError("no saver configured").
			WithHint("The invoice could not be saved").
			Mark(ierr.ErrDelivery)
	}
	path, err := s.saver.Save(ctx, doc, fileName)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to save document").
			WithHint("The invoice could not be saved").
			Mark(ierr.ErrDelivery)
	}
	return &Result{Outcome: OutcomeSaved, Location: path}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// FileName computes the delivery file name. The format is a literal
// contract parsed by downstream systems:
//
//	Invoice_<pin>_<sanitizedCustomerName>.<ext>
//
// where sanitization replaces every character outside [A-Za-z0-9] with "_".
func FileName(pin, customerName, ext string) string {
	return "Invoice_" + pin + "_" + unsafeFileChars.ReplaceAllString(customerName, "_") + "." + ext
}
