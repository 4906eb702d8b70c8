package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Report   ReportConfig   `mapstructure:"report"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds connection strings for the persistence backends.
// ClickHouse is optional: with an empty DSN the batch skips history appends.
type DatabaseConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickHouseDSN string `mapstructure:"clickhouse_dsn"`
}

// BatchConfig holds daily batch behavior configuration.
// TargetY1 of 0 means "derive from the snapshot date" (current fiscal year).
type BatchConfig struct {
	TargetY1    int  `mapstructure:"target_y1"`
	TargetY2    int  `mapstructure:"target_y2"`
	SkipHistory bool `mapstructure:"skip_history"`
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("EQUITY_LAB")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Batch defaults
	v.SetDefault("batch.target_y1", 0)
	v.SetDefault("batch.target_y2", 0)
	v.SetDefault("batch.skip_history", false)

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", ":9090")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required")
	}

	// Year pair must be consecutive when set explicitly
	if c.Batch.TargetY1 != 0 || c.Batch.TargetY2 != 0 {
		if c.Batch.TargetY1 < 1900 || c.Batch.TargetY1 > 2200 {
			return fmt.Errorf("batch.target_y1 must be a plausible fiscal year")
		}
		if c.Batch.TargetY2 != c.Batch.TargetY1+1 {
			return fmt.Errorf("batch.target_y2 must be batch.target_y1 + 1")
		}
	}

	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics is enabled")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}

	return nil
}

// TargetYears resolves the fiscal year pair for a given calendar year.
// Explicit configuration wins; otherwise the pair follows the snapshot year.
func (c *Config) TargetYears(snapshotYear int) (int, int) {
	if c.Batch.TargetY1 != 0 {
		return c.Batch.TargetY1, c.Batch.TargetY2
	}
	return snapshotYear, snapshotYear + 1
}
