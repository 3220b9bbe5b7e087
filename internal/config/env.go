package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Pattern: LOCALINT_[SECTION]_[KEY].
func ApplyEnvOverrides(cfg *Config) {
	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "LOCALINT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.RatePerSecond, "LOCALINT_WATCH_RATE_PER_SECOND")
	setEnvInt(&cfg.Watch.Burst, "LOCALINT_WATCH_BURST")

	// Output
	setEnvString(&cfg.Output.Text, "LOCALINT_OUTPUT_TEXT")
	setEnvString(&cfg.Output.TSV, "LOCALINT_OUTPUT_TSV")
	setEnvString(&cfg.Output.SARIF, "LOCALINT_OUTPUT_SARIF")

	// History
	setEnvString(&cfg.History.Path, "LOCALINT_HISTORY_PATH")
	setEnvString(&cfg.History.ProjectKey, "LOCALINT_HISTORY_PROJECT_KEY")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "LOCALINT_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "LOCALINT_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
