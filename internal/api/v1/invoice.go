package v1

import (
	"net/http"

	"github.com/garagebill/garagebill/internal/delivery"
	ierr "github.com/garagebill/garagebill/internal/errors"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/garagebill/garagebill/internal/service"
	"github.com/garagebill/garagebill/internal/types"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// PreviewResponse carries the live rendering plus the finalize signal and
// the primary validation message the shell displays.
type PreviewResponse struct {
	HTML        string   `json:"html"`
	CanFinalize bool     `json:"can_finalize"`
	Message     string   `json:"message,omitempty"`
	Problems    []string `json:"problems,omitempty"`
}

// Preview renders the live view of a stored record.
func (h *InvoiceHandler) Preview(c *gin.Context) {
	preview, err := h.invoiceService.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Errorw("failed to preview invoice", "id", c.Param("id"), "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, previewResponse(preview))
}

// PreviewRecord renders the live view of a raw record from the request
// body, used for unsaved drafts.
func (h *InvoiceHandler) PreviewRecord(c *gin.Context) {
	var rec types.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.logger.Errorw("failed to bind record", "error", err)
		c.Error(ierr.WithError(err).WithHint("Invalid invoice record").Mark(ierr.ErrMissingInput))
		return
	}

	preview, err := h.invoiceService.PreviewRecord(c.Request.Context(), rec)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, previewResponse(preview))
}

// GetPDF produces and returns the finished paged document.
func (h *InvoiceHandler) GetPDF(c *gin.Context) {
	generated, err := h.invoiceService.GenerateDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Errorw("failed to generate invoice pdf", "id", c.Param("id"), "error", err)
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+generated.FileName+`"`)
	c.Data(http.StatusOK, generated.Document.MIME, generated.Document.Bytes)
}

// Deliver hands the finished document to the user via the channel the
// supplied platform capabilities select.
func (h *InvoiceHandler) Deliver(c *gin.Context) {
	var caps delivery.Capabilities
	if err := c.ShouldBindJSON(&caps); err != nil {
		c.Error(ierr.WithError(err).WithHint("Invalid platform capabilities").Mark(ierr.ErrDelivery))
		return
	}

	result, err := h.invoiceService.Deliver(c.Request.Context(), c.Param("id"), caps)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDocument serves a transiently opened document by token.
func (h *InvoiceHandler) GetDocument(c *gin.Context) {
	doc, ok := h.invoiceService.ResolveDocument(c.Request.Context(), c.Param("token"))
	if !ok {
		c.Error(ierr.NewError("unknown or expired document token").
			WithHint("This invoice link has expired").
			Mark(ierr.ErrRecordNotFound))
		return
	}

	c.Data(http.StatusOK, doc.MIME, doc.Bytes)
}

func previewResponse(preview *service.Preview) PreviewResponse {
	return PreviewResponse{
		HTML:        preview.HTML,
		CanFinalize: preview.CanFinalize,
		Message:     preview.Message,
		Problems:    preview.Validation.Problems(),
	}
}
