package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	TemplatesDir string
	TaxRate      decimal.Decimal
	RedisAddr    string
	RateLimit    int
	OTLPEndpoint string
	OTLPInsecure bool
	ServiceName  string
}

func Load() Config {
	cfg := Config{
		Port:         readString("PORT", "8080"),
		DBDSN:        readString("DB_DSN", ":memory:"), // set a file path to keep data across restarts
		LogFile:      os.Getenv("LOG_FILE"),            // empty: stdout only
		TemplatesDir: readString("TEMPLATES_DIR", "./web/templates"),
		TaxRate:      readDecimal("TAX_RATE", decimal.RequireFromString("0.08")),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RateLimit:    readInt("RATE_LIMIT_PER_MIN", 120),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: readBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:  readString("SERVICE_NAME", "tablepos"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TEMPLATES_DIR=%s TAX_RATE=%s REDIS_ADDR=%s RATE_LIMIT_PER_MIN=%d OTLP=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TemplatesDir, cfg.TaxRate, cfg.RedisAddr, cfg.RateLimit, cfg.OTLPEndpoint)
	return cfg
}

func readString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func readInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring %s=%q", key, v)
		return def
	}
	return n
}

func readBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// readDecimal accepts a rate in [0,1).
func readDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		log.Printf("[config] ignoring %s=%q", key, v)
		return def
	}
	return d
}
