package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/anvesht/ragline/internal/config"
	"github.com/anvesht/ragline/internal/middleware"
	"github.com/anvesht/ragline/pkg/logx"
)

var (
	server  *http.Server
	_logger *logx.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logx.NewLogger("Server")

	r := newRouter()

	r.Post("/query", middleware.QueryHandler)
	r.Post("/query/stream", middleware.QueryStreamHandler)
	r.Post("/documents", middleware.IndexHandler)
	r.Post("/documents/upload", middleware.UploadHandler)
	r.Get("/collections", middleware.ListCollectionsHandler)
	r.Delete("/collections/{name}", middleware.DeleteCollectionHandler)
	r.Delete("/cache/embeddings", middleware.ClearCacheHandler)
	r.Get("/healthz", middleware.HealthHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func newRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	return router
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

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
