package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"

	"admin-pulse/internal/config"
	"admin-pulse/internal/middleware"
	"admin-pulse/internal/observability"
	"admin-pulse/internal/server"
	"admin-pulse/internal/services"
	"admin-pulse/internal/store"
	"admin-pulse/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	loadTimeout   = 30 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func pageHandler(component templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := component.Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	st := store.New(logger)
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	// A dataset that fails to load leaves only its own view empty; the
	// server still starts.
	st.Load(ctx, cfg.Data)

	customers := services.NewCustomerDirectory(logger)
	customers.SetData(st.Users())

	ledger := services.NewTransactionLedger(logger)
	ledger.SetData(st.Transactions())

	analytics := services.NewVisitorAnalytics(cfg.Data.Location(), logger)
	analytics.SetData(st.Visitors())

	pages := &server.PageHandlers{
		Analytics:    pageHandler(templates.Analytics()),
		Customers:    pageHandler(templates.Customers()),
		Transactions: pageHandler(templates.Transactions()),
	}

	srv := server.NewServer(st, customers, ledger, analytics, logger, pages)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("dashboard services", func(ctx context.Context) error {
		logger.Info("shutting down dashboard services")
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
