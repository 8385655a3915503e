package service

import (
	"context"

	"github.com/garagebill/garagebill/internal/config"
	"github.com/garagebill/garagebill/internal/delivery"
	"github.com/garagebill/garagebill/internal/domain/invoice"
	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/layout"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/garagebill/garagebill/internal/mapper"
	"github.com/garagebill/garagebill/internal/render"
	"github.com/garagebill/garagebill/internal/resource"
	"github.com/garagebill/garagebill/internal/session"
	"github.com/garagebill/garagebill/internal/types"
	"github.com/garagebill/garagebill/internal/validation"
)

// Preview is the live rendering of an invoice attempt. It exists even when
// validation failed: the shell shows the HTML with inline warnings and keeps
// the finalize action disabled.
type Preview struct {
	Model       *invoice.Model
	Validation  validation.Result
	HTML        string
	CanFinalize bool
	// Message is the primary user-facing validation message, empty when
	// the invoice is finalizable.
	Message string
}

// GeneratedDocument pairs a finished document with its delivery file name.
type GeneratedDocument struct {
	Document *render.Document
	FileName string
}

// InvoiceService runs the pipeline: record source -> mapper -> validation ->
// layout -> renderer -> delivery. Every stage is synchronous; only the
// record fetch and resource loads touch I/O.
type InvoiceService interface {
	// Preview fetches a record and renders the live view.
	Preview(ctx context.Context, id string) (*Preview, error)
	// PreviewRecord renders the live view for a raw record, e.g. an
	// unsaved draft from the shell.
	PreviewRecord(ctx context.Context, rec types.Record) (*Preview, error)
	// GenerateDocument produces the finished paged document. Blocked by
	// hard validation failures.
	GenerateDocument(ctx context.Context, id string) (*GeneratedDocument, error)
	// Deliver hands the finished document to the user, generating it first
	// if this render attempt has not produced one yet. A delivery failure
	// keeps the document so the call can simply be repeated.
	Deliver(ctx context.Context, id string, caps delivery.Capabilities) (*delivery.Result, error)
	// ActiveInvoice reports the invoice the shell is currently showing.
	ActiveInvoice(ctx context.Context) (string, bool)
	// ResolveDocument fetches a transiently opened document by token.
	ResolveDocument(ctx context.Context, token string) (*render.Document, bool)
}

// ServiceParams bundles the collaborators the pipeline depends on.
type ServiceParams struct {
	Config   *config.Configuration
	Logger   *logger.Logger
	Records  invoice.RecordSource
	Session  session.Store
	Loader   resource.Loader
	Canvas   render.CanvasFactory
	Strategy *delivery.Strategy
	Opener   *delivery.SessionOpener
}

type invoiceService struct {
	ServiceParams

	mapper *mapper.Mapper
	engine *layout.Engine
	live   *render.LiveRenderer
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	currency := params.Config.Invoice.Currency
	return &invoiceService{
		ServiceParams: params,
		mapper:        mapper.New(params.Config),
		engine:        layout.NewEngine(layout.DefaultGeometry, currency),
		live:          render.NewLiveRenderer(currency),
	}
}

const (
	activeInvoiceKey = session.PrefixActiveInvoice + "current"
	draftKey         = session.PrefixDraft + "current"
)

func (s *invoiceService) Preview(ctx context.Context, id string) (*Preview, error) {
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	preview, err := s.preview(rec)
	if err != nil {
		return nil, err
	}

	s.Session.Set(ctx, activeInvoiceKey, id, session.DefaultExpiration)
	return preview, nil
}

func (s *invoiceService) PreviewRecord(ctx context.Context, rec types.Record) (*Preview, error) {
	preview, err := s.preview(rec)
	if err != nil {
		return nil, err
	}

	// keep the entered draft around so the shell can restore it
	s.Session.Set(ctx, draftKey, rec, session.DefaultExpiration)
	return preview, nil
}

func (s *invoiceService) preview(rec types.Record) (*Preview, error) {
	model, err := s.mapper.Map(rec)
	if err != nil {
		return nil, err
	}

	result := validation.Validate(model)

	html, err := s.live.RenderHTML(model, result.Problems())
	if err != nil {
		return nil, err
	}

	return &Preview{
		Model:       model,
		Validation:  result,
		HTML:        html,
		CanFinalize: result.IsValid(),
		Message:     result.FirstError(),
	}, nil
}

func (s *invoiceService) GenerateDocument(ctx context.Context, id string) (*GeneratedDocument, error) {
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	model, err := s.mapper.Map(rec)
	if err != nil {
		return nil, err
	}

	result := validation.Validate(model)
	if !result.IsValid() {
		return nil, ierr.NewError("invoice failed validation").
			WithHint(result.FirstError()).
			WithReportableDetails(map[string]any{"problems": result.Problems()}).
			Mark(ierr.ErrValidation)
	}

	instructions := s.engine.Layout(model)

	// Optional drawables: any failure degrades to a blank background.
	background := resource.LoadOptional(ctx, s.Loader, s.Config.Resources.TemplateURL, s.Logger)
	logo := resource.LoadOptional(ctx, s.Loader, s.Config.Resources.LogoURL, s.Logger)

	renderer := render.NewDocumentRenderer(s.Canvas, layout.DefaultGeometry, s.Logger).
		WithBackground(background).
		WithImage(layout.LogoResource, logo)

	doc, err := renderer.Render(instructions)
	if err != nil {
		return nil, err
	}

	generated := &GeneratedDocument{
		Document: doc,
		FileName: delivery.FileName(model.Details.PIN, model.Customer.Name, "pdf"),
	}

	// Retain the finished document for this render attempt so a delivery
	// failure can be retried without re-running layout.
	s.Session.Set(ctx, documentKey(id), generated, session.DefaultExpiration)
	s.Session.Set(ctx, activeInvoiceKey, id, session.DefaultExpiration)

	s.Logger.Infow("generated invoice document",
		"invoice_id", id,
		"file", generated.FileName,
		"pages", doc.Pages,
		"bytes", len(doc.Bytes))

	return generated, nil
}

func (s *invoiceService) Deliver(ctx context.Context, id string, caps delivery.Capabilities) (*delivery.Result, error) {
	generated, ok := s.cachedDocument(ctx, id)
	if !ok {
		var err error
		generated, err = s.GenerateDocument(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	result, err := s.Strategy.Deliver(ctx, generated.Document, generated.FileName, caps)
	if err != nil {
		// the document stays in the session; the caller can retry
		s.Logger.Errorw("delivery failed, document retained for retry",
			"invoice_id", id, "file", generated.FileName, "error", err)
		return nil, err
	}

	s.Logger.Infow("delivered invoice",
		"invoice_id", id, "outcome", result.Outcome, "location", result.Location)
	return result, nil
}

func (s *invoiceService) ActiveInvoice(ctx context.Context) (string, bool) {
	v, ok := s.Session.Get(ctx, activeInvoiceKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func (s *invoiceService) ResolveDocument(ctx context.Context, token string) (*render.Document, bool) {
	if s.Opener == nil {
		return nil, false
	}
	return s.Opener.Resolve(ctx, token)
}

func (s *invoiceService) fetch(ctx context.Context, id string) (types.Record, error) {
	if id == "" {
		return nil, ierr.NewError("no invoice id supplied").
			WithHint("No invoice was selected").
			Mark(ierr.ErrMissingInput)
	}

	rec, err := s.Records.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ierr.NewError("record source returned no record").
			WithHintf("No appointment found for reference %s", id).
			Mark(ierr.ErrRecordNotFound)
	}
	return rec, nil
}

func (s *invoiceService) cachedDocument(ctx context.Context, id string) (*GeneratedDocument, bool) {
	v, ok := s.Session.Get(ctx, documentKey(id))
	if !ok {
		return nil, false
	}
	generated, ok := v.(*GeneratedDocument)
	return generated, ok
}

func documentKey(id string) string {
	return session.PrefixDocument + "invoice:" + id
}
