package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bankledger/internal/api"
	"bankledger/internal/config"
	"bankledger/internal/ledger"
	"bankledger/internal/repository/memory"
	"bankledger/pkg/metrics"
)

const appName = "bankledger"

func main() {
	logger := setupLogger()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on system env vars")
	}
	cfg := config.Load()
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.String("addr", cfg.HTTPAddr))

	collector := metrics.NewCollector(logger)

	accountRepo := memory.NewAccountRepository()
	txRepo := memory.NewTransactionRepository()

	var directory ledger.Directory = ledger.AllowAllDirectory{}
	if len(cfg.KnownClients) > 0 {
		directory = ledger.NewStaticDirectory(cfg.KnownClients...)
	}

	detector := ledger.NewDetector(ledger.AmountAboveRule(cfg.SuspiciousThreshold))
	service := ledger.NewService(accountRepo, txRepo, directory, detector)

	apiHandler := api.NewAPIHandler(service, collector, logger, cfg.RequestTimeout)
	metricsServer := collector.StartMetricsServer(cfg.MetricsAddr)
	httpServer := startHTTPServer(cfg.HTTPAddr, apiHandler, logger)

	waitForShutdown(logger, httpServer, metricsServer)
	logger.Info("Application shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(logger *slog.Logger, httpServer, metricsServer *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}
}
