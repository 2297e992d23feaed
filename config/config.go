// Package config defines process configuration for the fit-zones binaries.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasjlepore/fit-zones/telemetry"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address of fitboard, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DatasetDir holds the processed race results files.
	DatasetDir string `koanf:"dataset_dir"`

	// Statistic is the default reference-line statistic: mean or median.
	Statistic string `koanf:"statistic"`

	// ExportFormat is the default sample export flavor: csv or parquet.
	ExportFormat string `koanf:"export_format"`

	// Signal is the telemetry field the threshold is estimated from.
	Signal string `koanf:"signal"`

	// MaxUploadBytes caps uploaded telemetry files.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

var metricNamespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		DatasetDir:       "Dataset",
		Statistic:        "mean",
		ExportFormat:     "csv",
		Signal:           telemetry.FieldHeartRate.String(),
		MaxUploadBytes:   32 << 20,
		MetricsNamespace: "fitzones",
	}
}

// Validate checks every field and reports the first problem wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatasetDir) == "":
		return fmt.Errorf("%w: dataset_dir must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Statistic) {
	case "mean", "median":
	default:
		return fmt.Errorf("%w: statistic %q (expected mean|median)", ErrInvalidConfig, c.Statistic)
	}
	switch strings.ToLower(c.ExportFormat) {
	case "csv", "parquet":
	default:
		return fmt.Errorf("%w: export_format %q (expected csv|parquet)", ErrInvalidConfig, c.ExportFormat)
	}
	if f, ok := telemetry.ParseField(c.Signal); !ok || !f.Numeric() {
		return fmt.Errorf("%w: signal %q is not a numeric telemetry field", ErrInvalidConfig, c.Signal)
	}
	if !metricNamespacePattern.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name prefix", ErrInvalidConfig, c.MetricsNamespace)
	}
	return nil
}

// SignalField returns Signal as a telemetry field. Call after Validate.
func (c *Config) SignalField() telemetry.Field {
	f, ok := telemetry.ParseField(c.Signal)
	if !ok {
		return telemetry.FieldHeartRate
	}
	return f
}
