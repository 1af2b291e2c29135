package config

import (
	"os"
	"strconv"
	"time"

	"github.com/strrl/combatlog/pkg/logging"
)

// Default values for configuration.
const (
	DefaultLocale         = "en"
	DefaultPollInterval   = 100 * time.Millisecond
	DefaultMasterWorkbook = "resources/CombatLogBase.xlsx"
	DefaultArchivePath    = "combatlog.duckdb"
)

// Environment variable names.
const (
	EnvLocale       = "COMBATLOG_LOCALE"
	EnvZone         = "COMBATLOG_ZONE"
	EnvSaveDir      = "COMBATLOG_SAVE_DIR"
	EnvAutoSave     = "COMBATLOG_AUTO_SAVE"
	EnvArchivePath  = "COMBATLOG_DB"
	EnvLogLevel     = "COMBATLOG_LOG_LEVEL"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Locale: DefaultLocale,
		Analysis: AnalysisConfig{
			Enabled:      true,
			PollInterval: DefaultPollInterval,
		},
		Export: ExportConfig{
			MasterWorkbook: DefaultMasterWorkbook,
		},
		Archive: ArchiveConfig{
			Path: DefaultArchivePath,
		},
		Log: logging.Config{
			Level: "info",
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvLocale); v != "" {
		c.Locale = v
	}
	if v := os.Getenv(EnvZone); v != "" {
		c.Zone = v
	}
	if v := os.Getenv(EnvSaveDir); v != "" {
		c.Export.SaveDirectory = v
	}
	if v := os.Getenv(EnvAutoSave); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Export.AutoSave = b
		}
	}
	if v := os.Getenv(EnvArchivePath); v != "" {
		c.Archive.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		c.Tracing.Endpoint = v
	}
}
