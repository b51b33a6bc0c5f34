package observability

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Enabled           bool
	TracesEnabled     bool
	MetricsEnabled    bool
	ServiceName       string
	ServiceVersion    string
	Environment       string
	OTLPEndpoint      string
	TraceSamplingRate float64
}

// ResolveConfig returns the observability settings, with SQLGENERIC_OTEL_*
// environment variables overriding the defaults. Export stays off unless
// SQLGENERIC_OTEL_ENABLED is true.
func ResolveConfig() Config {
	cfg := Config{
		Enabled:           false,
		TracesEnabled:     true,
		MetricsEnabled:    true,
		ServiceName:       "sqlgeneric",
		ServiceVersion:    "dev",
		Environment:       "development",
		OTLPEndpoint:      "localhost:4317",
		TraceSamplingRate: 1.0,
	}

	overrideBool("SQLGENERIC_OTEL_ENABLED", &cfg.Enabled)
	overrideBool("SQLGENERIC_OTEL_TRACES_ENABLED", &cfg.TracesEnabled)
	overrideBool("SQLGENERIC_OTEL_METRICS_ENABLED", &cfg.MetricsEnabled)
	overrideString("SQLGENERIC_OTEL_SERVICE_NAME", &cfg.ServiceName)
	overrideString("SQLGENERIC_OTEL_SERVICE_VERSION", &cfg.ServiceVersion)
	overrideString("SQLGENERIC_OTEL_ENVIRONMENT", &cfg.Environment)
	overrideString("SQLGENERIC_OTEL_ENDPOINT", &cfg.OTLPEndpoint)
	overrideFloat("SQLGENERIC_OTEL_TRACE_SAMPLING_RATIO", &cfg.TraceSamplingRate)

	if cfg.TraceSamplingRate < 0 {
		cfg.TraceSamplingRate = 0
	}
	if cfg.TraceSamplingRate > 1 {
		cfg.TraceSamplingRate = 1
	}
	cfg.OTLPEndpoint = strings.TrimSpace(cfg.OTLPEndpoint)

	return cfg
}

func overrideString(name string, target *string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func overrideBool(name string, target *bool) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err == nil {
		*target = parsed
	}
}

func overrideFloat(name string, target *float64) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err == nil {
		*target = parsed
	}
}
