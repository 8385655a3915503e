package main

import (
	"context"
	"time"

	"github.com/garagebill/garagebill/internal/api"
	v1 "github.com/garagebill/garagebill/internal/api/v1"
	"github.com/garagebill/garagebill/internal/config"
	"github.com/garagebill/garagebill/internal/delivery"
	"github.com/garagebill/garagebill/internal/domain/invoice"
	"github.com/garagebill/garagebill/internal/logger"
	"github.com/garagebill/garagebill/internal/render"
	"github.com/garagebill/garagebill/internal/resource"
	"github.com/garagebill/garagebill/internal/service"
	"github.com/garagebill/garagebill/internal/session"
	"github.com/garagebill/garagebill/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,

			session.NewInMemoryStore,
			newRecordSource,
			newLoader,
			newCanvasFactory,
			newOpener,
			newStrategy,
			newInvoiceService,

			v1.NewInvoiceHandler,
			newRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

// newRecordSource wires the in-memory record source. The remote appointment
// store is an external collaborator; deployments replace this provider with
// a client for it.
func newRecordSource() invoice.RecordSource {
	return testutil.NewInMemoryRecordStore()
}

func newLoader(log *logger.Logger) resource.Loader {
	return resource.NewHTTPLoader(log)
}

func newCanvasFactory() render.CanvasFactory {
	return render.NewFpdfCanvas
}

func newOpener(store session.Store) *delivery.SessionOpener {
	return &delivery.SessionOpener{Store: store}
}

func newStrategy(cfg *config.Configuration, opener *delivery.SessionOpener, log *logger.Logger) *delivery.Strategy {
	saver := &delivery.DiskSaver{OutputDir: cfg.Delivery.OutputDir}
	// no native share channel on the server; mobile callers fall through
	// to the transient open reference
	return delivery.NewStrategy(nil, opener, saver, log)
}

func newInvoiceService(
	cfg *config.Configuration,
	log *logger.Logger,
	records invoice.RecordSource,
	store session.Store,
	loader resource.Loader,
	canvas render.CanvasFactory,
	strategy *delivery.Strategy,
	opener *delivery.SessionOpener,
) service.InvoiceService {
	return service.NewInvoiceService(service.ServiceParams{
		Config:   cfg,
		Logger:   log,
		Records:  records,
		Session:  store,
		Loader:   loader,
		Canvas:   canvas,
		Strategy: strategy,
		Opener:   opener,
	})
}

func newRouter(invoiceHandler *v1.InvoiceHandler) *gin.Engine {
	return api.NewRouter(api.Handlers{Invoice: invoiceHandler})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
