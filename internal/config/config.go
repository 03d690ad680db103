package config

import (
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr            string
	MetricsAddr         string
	RequestTimeout      time.Duration
	SuspiciousThreshold decimal.Decimal
	// KnownClients restricts account creation to the listed client ids.
	// Empty means the directory accepts everyone.
	KnownClients []string
}

func Load() Config {
	return Config{
		HTTPAddr:            getEnv("LEDGER_HTTP_ADDR", ":8080"),
		MetricsAddr:         getEnv("LEDGER_METRICS_ADDR", ":9090"),
		RequestTimeout:      getDuration("LEDGER_REQUEST_TIMEOUT", 30*time.Second),
		SuspiciousThreshold: getDecimal("LEDGER_SUSPICIOUS_THRESHOLD", decimal.NewFromInt(10000)),
		KnownClients:        getList("LEDGER_KNOWN_CLIENTS"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
