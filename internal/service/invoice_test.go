package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/garagebill/garagebill/internal/config"
	"github.com/garagebill/garagebill/internal/delivery"
	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/garagebill/garagebill/internal/render"
	"github.com/garagebill/garagebill/internal/resource"
	"github.com/garagebill/garagebill/internal/service"
	"github.com/garagebill/garagebill/internal/session"
	"github.com/garagebill/garagebill/internal/testutil"
	"github.com/garagebill/garagebill/internal/types"
	"github.com/stretchr/testify/suite"
)

const (
	templateURL = "https://cdn.example/template.png"
	logoURL     = "https://cdn.example/logo.png"
)

// flakySaver fails a configured number of saves before succeeding, for
// exercising the delivery retry path.
type flakySaver struct {
	failures int
	calls    int
}

func (f *flakySaver) Save(_ context.Context, _ *render.Document, fileName string) (string, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return "", fmt.Errorf("disk full")
	}
	return "/out/" + fileName, nil
}

type InvoiceServiceSuite struct {
	suite.Suite
	ctx context.Context

	records *testutil.InMemoryRecordStore
	session session.Store
	loader  *testutil.StubLoader
	saver   *flakySaver
	opener  *delivery.SessionOpener

	canvas       *testutil.RecordingCanvas
	factoryCalls int

	service service.InvoiceService
}

func TestInvoiceServiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.ctx = context.Background()

	cfg := config.GetDefaultConfig()
	cfg.Resources.TemplateURL = templateURL
	cfg.Resources.LogoURL = logoURL

	log := logger.GetLogger()

	s.records = testutil.NewInMemoryRecordStore()
	s.session = session.NewInMemoryStore()
	s.saver = &flakySaver{}
	s.opener = &delivery.SessionOpener{Store: s.session}

	s.loader = testutil.NewStubLoader()
	s.loader.Resources[templateURL] = &resource.Embeddable{Name: "template", MIME: "image/png", Data: []byte{1}}
	s.loader.Resources[logoURL] = &resource.Embeddable{Name: "logo", MIME: "image/png", Data: []byte{1}}

	s.canvas = nil
	s.factoryCalls = 0
	factory := func() render.Canvas {
		s.factoryCalls++
		s.canvas = testutil.NewRecordingCanvas()
		return s.canvas
	}

	s.service = service.NewInvoiceService(service.ServiceParams{
		Config:   cfg,
		Logger:   log,
		Records:  s.records,
		Session:  s.session,
		Loader:   s.loader,
		Canvas:   factory,
		Strategy: delivery.NewStrategy(nil, s.opener, s.saver, log),
		Opener:   s.opener,
	})
}

func (s *InvoiceServiceSuite) janeDoe() types.Record {
	return types.Record{
		"customerName": "Jane Doe",
		"pin":          "ZX81",
		"vatRate":      0.2,
		"items": []any{
			map[string]any{"description": "Oil change", "qty": 1, "unitPrice": 40},
		},
	}
}

func (s *InvoiceServiceSuite) TestPreview() {
	s.records.Add("appt-1", s.janeDoe())

	preview, err := s.service.Preview(s.ctx, "appt-1")
	s.Require().NoError(err)

	s.True(preview.CanFinalize)
	s.Empty(preview.Message)
	s.Contains(preview.HTML, "Jane Doe")
	s.Contains(preview.HTML, "Total: £48.00")

	id, ok := s.service.ActiveInvoice(s.ctx)
	s.True(ok)
	s.Equal("appt-1", id)
}

func (s *InvoiceServiceSuite) TestPreviewRecordKeepsDraft() {
	rec := s.janeDoe()
	delete(rec, "customerName")

	preview, err := s.service.PreviewRecord(s.ctx, rec)
	s.Require().NoError(err)

	s.False(preview.CanFinalize)
	s.Equal("Customer name is required", preview.Message)
	s.Contains(preview.HTML, "Customer name is required")

	_, ok := s.session.Get(s.ctx, session.PrefixDraft+"current")
	s.True(ok)
}

func (s *InvoiceServiceSuite) TestPreviewEmptyItemsStillRenders() {
	s.records.Add("appt-1", types.Record{
		"customerName": "Jane Doe",
		"items":        []any{},
	})

	preview, err := s.service.Preview(s.ctx, "appt-1")
	s.Require().NoError(err)

	s.False(preview.CanFinalize)
	s.Contains(preview.HTML, "No services listed")
	s.Contains(preview.Message, "service item")
}

func (s *InvoiceServiceSuite) TestGenerateDocument() {
	s.records.Add("appt-1", s.janeDoe())

	generated, err := s.service.GenerateDocument(s.ctx, "appt-1")
	s.Require().NoError(err)

	s.Equal("Invoice_ZX81_Jane_Doe.pdf", generated.FileName)
	s.Equal(1, generated.Document.Pages)
	s.Equal("application/pdf", generated.Document.MIME)

	s.Contains(s.canvas.TextContents(), "£48.00")
	s.Contains(s.canvas.TextContents(), "PIN: ZX81")

	// template background plus the header logo
	s.Len(s.canvas.Images, 2)
	s.Contains(s.loader.Calls, templateURL)
	s.Contains(s.loader.Calls, logoURL)
}

func (s *InvoiceServiceSuite) TestGenerateDocumentBlockedByValidation() {
	s.records.Add("appt-1", types.Record{
		"customerName": "Jane Doe",
		"items":        []any{},
	})

	_, err := s.service.GenerateDocument(s.ctx, "appt-1")
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Zero(s.factoryCalls, "no canvas work for an invalid invoice")
}

func (s *InvoiceServiceSuite) TestGenerateDocumentPagination() {
	items := make([]any, 0, 40)
	for i := 1; i <= 40; i++ {
		items = append(items, map[string]any{
			"description": fmt.Sprintf("Service %d", i),
			"qty":         1,
			"unitPrice":   10,
		})
	}
	s.records.Add("appt-1", types.Record{"customerName": "Jane Doe", "items": items})

	generated, err := s.service.GenerateDocument(s.ctx, "appt-1")
	s.Require().NoError(err)
	s.Equal(2, generated.Document.Pages)
}

func (s *InvoiceServiceSuite) TestGenerateDocumentSoftWarnings() {
	s.records.Add("appt-1", types.Record{
		"customerName": "Jane Doe",
		"vatRate":      0.2,
		"items": []any{
			map[string]any{"description": "Oil change", "qty": 1, "unitPrice": 40},
			map[string]any{"description": "Brakes", "qty": -1, "unitPrice": 90},
		},
	})

	generated, err := s.service.GenerateDocument(s.ctx, "appt-1")
	s.Require().NoError(err)

	// flagged row stays visible but contributes nothing to the totals
	s.Contains(s.canvas.TextContents(), "Brakes *")
	s.Contains(s.canvas.TextContents(), "£48.00")
	s.NotNil(generated.Document)
}

func (s *InvoiceServiceSuite) TestGenerateDocumentBlankBackgroundFallback() {
	s.loader.Resources = map[string]*resource.Embeddable{}
	s.records.Add("appt-1", s.janeDoe())

	generated, err := s.service.GenerateDocument(s.ctx, "appt-1")
	s.Require().NoError(err)

	s.NotNil(generated.Document)
	s.Empty(s.canvas.Images, "no background, logo instruction skipped")
}

func (s *InvoiceServiceSuite) TestDeliverDesktopSave() {
	s.records.Add("appt-1", s.janeDoe())

	result, err := s.service.Deliver(s.ctx, "appt-1", delivery.Capabilities{})
	s.Require().NoError(err)

	s.Equal(delivery.OutcomeSaved, result.Outcome)
	s.Equal("/out/Invoice_ZX81_Jane_Doe.pdf", result.Location)
}

func (s *InvoiceServiceSuite) TestDeliverRetryReusesDocument() {
	s.records.Add("appt-1", s.janeDoe())
	s.saver.failures = 1

	_, err := s.service.Deliver(s.ctx, "appt-1", delivery.Capabilities{})
	s.Require().Error(err)
	s.True(ierr.IsDelivery(err))
	s.Equal(1, s.factoryCalls)

	// the retained document is redelivered without re-running the pipeline
	result, err := s.service.Deliver(s.ctx, "appt-1", delivery.Capabilities{})
	s.Require().NoError(err)
	s.Equal(delivery.OutcomeSaved, result.Outcome)
	s.Equal(1, s.factoryCalls)
	s.Equal(2, s.saver.calls)
}

func (s *InvoiceServiceSuite) TestDeliverMobileOpenAndResolve() {
	s.records.Add("appt-1", s.janeDoe())

	result, err := s.service.Deliver(s.ctx, "appt-1", delivery.Capabilities{Mobile: true})
	s.Require().NoError(err)

	s.Equal(delivery.OutcomeOpened, result.Outcome)
	s.Require().True(strings.HasPrefix(result.Location, "/v1/documents/"))

	token := strings.TrimPrefix(result.Location, "/v1/documents/")
	doc, ok := s.service.ResolveDocument(s.ctx, token)
	s.True(ok)
	s.NotNil(doc)
}

func (s *InvoiceServiceSuite) TestFetchErrors() {
	_, err := s.service.Preview(s.ctx, "")
	s.Require().Error(err)
	s.True(ierr.IsMissingInput(err))

	_, err = s.service.Preview(s.ctx, "no-such-appointment")
	s.Require().Error(err)
	s.True(ierr.IsRecordNotFound(err))
}
