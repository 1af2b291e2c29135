package config

import (
	"time"

	"github.com/strrl/combatlog/pkg/logging"
	"github.com/strrl/combatlog/pkg/tracing"
)

// Config is the combatlog configuration file.
type Config struct {
	Locale string `yaml:"locale"`
	// Zone is the zone name reported when the host has none.
	Zone     string         `yaml:"zone"`
	Party    []PartyMember  `yaml:"party"`
	Worlds   []string       `yaml:"worlds"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Export   ExportConfig   `yaml:"export"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Log      logging.Config `yaml:"log"`
	Tracing  tracing.Config `yaml:"tracing"`
}

// PartyMember is a roster entry whose name is filtered and redacted.
type PartyMember struct {
	Name   string `yaml:"name"`
	Job    string `yaml:"job"`
	Player bool   `yaml:"player"`
}

// AnalysisConfig controls live analysis.
type AnalysisConfig struct {
	Enabled        bool          `yaml:"enabled"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	IgnoreKeywords []string      `yaml:"ignore_keywords"`
	// NoisePatterns are regular expressions; matching lines are dropped.
	NoisePatterns []string `yaml:"noise_patterns"`
}

// ExportConfig controls exports.
type ExportConfig struct {
	AutoSave       bool   `yaml:"auto_save"`
	SaveDirectory  string `yaml:"save_directory"`
	MasterWorkbook string `yaml:"master_workbook"`
	WorkDir        string `yaml:"work_dir"`
}

// ArchiveConfig controls the DuckDB session archive.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
