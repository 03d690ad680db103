package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

type Collector struct {
	registry            *prometheus.Registry
	operationsProcessed *prometheus.CounterVec
	operationsFailed    *prometheus.CounterVec
	operationDuration   prometheus.Histogram
	suspiciousFlagged   prometheus.Counter
	accountBalance      *prometheus.GaugeVec
	logger              *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		operationsProcessed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of completed ledger operations",
		}, []string{"operation"}),
		operationsFailed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_failed_total",
			Help: "Total number of rejected or failed ledger operations",
		}, []string{"operation"}),
		operationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Time taken to execute a ledger operation",
			Buckets: prometheus.DefBuckets,
		}),
		suspiciousFlagged: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_suspicious_transactions_total",
			Help: "Total number of transactions flagged by the detector",
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_account_balance",
			Help: "Current account balance",
		}, []string{"account_id"}),
		logger: logger,
	}
}

func (c *Collector) RecordOperation(operation string, duration time.Duration, success bool) {
	if success {
		c.operationsProcessed.WithLabelValues(operation).Inc()
	} else {
		c.operationsFailed.WithLabelValues(operation).Inc()
	}
	c.operationDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordSuspicious(count int) {
	c.suspiciousFlagged.Add(float64(count))
}

func (c *Collector) UpdateAccountBalance(accountID string, balance decimal.Decimal) {
	c.accountBalance.WithLabelValues(accountID).Set(balance.InexactFloat64())
}

func (c *Collector) RemoveAccountBalance(accountID string) {
	c.accountBalance.DeleteLabelValues(accountID)
}

func (c *Collector) GetHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		c.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (c *Collector) Shutdown(ctx context.Context) error {
	c.logger.Info("Metrics collector shutdown complete")
	return nil
}
