package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/ragops/internal/adapter/utils"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/handlers"
	"github.com/akolanti/ragops/internal/middleware"
	"github.com/akolanti/ragops/pkg/logger_i"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// NewRouter registers every API route behind the middleware pipeline.
// Health, metrics and swagger stay unauthenticated.
func NewRouter(h *handlers.Handler, mw *middleware.Middleware) http.Handler {
	r := utils.NewRouter()

	r.Router.Get("/health", mw.Public(h.HealthHandler))

	r.Router.Post("/chat", mw.Wrap(h.ChatHandler))
	r.Router.Post("/chat/sync", mw.Wrap(h.ChatSyncHandler))
	r.Router.Get("/chat/history/{session_id}", mw.Wrap(h.ChatHistoryHandler))
	r.Router.Get("/status/{id}", mw.Wrap(h.GetStatusHandler))

	r.Router.Post("/documents", mw.Wrap(h.UploadDocumentHandler))
	r.Router.Get("/documents", mw.Wrap(h.ListDocumentsHandler))
	r.Router.Get("/documents/{id}", mw.Wrap(h.GetDocumentHandler))
	r.Router.Delete("/documents/{id}", mw.Wrap(h.DeleteDocumentHandler))
	r.Router.Post("/documents/{id}/reprocess", mw.Wrap(h.ReprocessDocumentHandler))

	r.Router.Get("/evals", mw.Wrap(h.ListEvalsHandler))
	r.Router.Post("/evals", mw.Wrap(h.CreateEvalHandler))
	r.Router.Get("/evals/datasets", mw.Wrap(h.ListDatasetsHandler))
	r.Router.Get("/evals/compare", mw.Wrap(h.CompareEvalsHandler))
	r.Router.Get("/evals/{id}", mw.Wrap(h.GetEvalHandler))
	r.Router.Delete("/evals/{id}", mw.Wrap(h.DeleteEvalHandler))
	r.Router.Post("/evals/{id}/cancel", mw.Wrap(h.CancelEvalHandler))

	r.Router.Get("/traces", mw.Wrap(h.ListTracesHandler))
	r.Router.Get("/traces/{run_id}", mw.Wrap(h.GetTraceHandler))
	r.Router.Get("/traces/{run_id}/events", mw.Wrap(h.GetTraceEventsHandler))
	r.Router.Delete("/traces/{run_id}", mw.Wrap(h.DeleteTraceHandler))

	return otelhttp.NewHandler(r.Router, "ragops.http")
}

func CreateServer(listenAddr string, handler http.Handler) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Info("Force shut down")
		os.Exit(1)
	}
}
