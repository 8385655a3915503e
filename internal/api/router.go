package api

import (
	v1 "github.com/garagebill/garagebill/internal/api/v1"
	"github.com/garagebill/garagebill/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Invoice *v1.InvoiceHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("/preview", handlers.Invoice.PreviewRecord)
		invoices.GET("/:id/preview", handlers.Invoice.Preview)
		invoices.GET("/:id/pdf", handlers.Invoice.GetPDF)
		invoices.POST("/:id/deliver", handlers.Invoice.Deliver)
	}

	documents := router.Group("/documents")
	{
		documents.GET("/:token", handlers.Invoice.GetDocument)
	}
}
