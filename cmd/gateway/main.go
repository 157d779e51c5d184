package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application/services"
	"github.com/ugconnect/wifi-voucher-gateway/internal/config"
	"github.com/ugconnect/wifi-voucher-gateway/internal/infrastructure/persistence/postgres"
	"github.com/ugconnect/wifi-voucher-gateway/internal/infrastructure/relworx"
	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest/handlers"
	"github.com/ugconnect/wifi-voucher-gateway/internal/interfaces/rest/middleware"
	"github.com/ugconnect/wifi-voucher-gateway/internal/metrics"
	"github.com/ugconnect/wifi-voucher-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting voucher gateway",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	catalog, err := cfg.Catalog.LoadCatalog()
	if err != nil {
		logger.Error("failed to load voucher catalog", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactionRepo := postgres.NewTransactionRepository(db)

	m := metrics.New()
	provider := metrics.NewInstrumentedProvider(relworx.NewClient(cfg.Relworx), m)

	initiateService := services.NewInitiateService(transactionRepo, provider, logger)
	statusService := services.NewStatusService(transactionRepo, provider, logger)
	queryService := services.NewQueryService(transactionRepo)
	webhookService := services.NewWebhookService(transactionRepo, logger)

	h := handlers.NewHandlers(
		initiateService,
		statusService,
		queryService,
		webhookService,
		catalog,
		cfg.Auth.WebhookSecret,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, middleware.RequireAPIKey(cfg.Auth.APIKey))
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	handler := http.Handler(mux)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)
	handler = middleware.CORS(cfg.CORS.Origins())(handler)
	handler = middleware.Metrics(m, mux)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	reconciler := worker.NewReconciler(
		transactionRepo,
		provider,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		cfg.Worker.StaleAfter,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go reconciler.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
