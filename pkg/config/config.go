package config

import (
	"context"
	"os"
	"regexp"

	"github.com/go-errors/errors"
	"github.com/strrl/combatlog/pkg/ruleset"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, errors.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if _, err := ruleset.ParseLocale(cfg.Locale); err != nil {
		return errors.Errorf("locale: %w", err)
	}
	if cfg.Analysis.PollInterval <= 0 {
		return errors.New("analysis.poll_interval: must be positive")
	}
	for i, p := range cfg.Analysis.NoisePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return errors.Errorf("analysis.noise_patterns[%d]: %w", i, err)
		}
	}
	for i, m := range cfg.Party {
		if m.Name == "" {
			return errors.Errorf("party[%d]: name is required", i)
		}
	}
	if cfg.Export.AutoSave && cfg.Export.SaveDirectory == "" {
		return errors.New("export.save_directory: required when auto_save is enabled")
	}
	return nil
}

// ResolvedLocale returns the validated locale.
func (c *Config) ResolvedLocale() ruleset.Locale {
	l, err := ruleset.ParseLocale(c.Locale)
	if err != nil {
		return ruleset.EN
	}
	return l
}

// NoiseMatcher compiles NoisePatterns into a single predicate. It returns
// nil when there are no patterns.
func (c *Config) NoiseMatcher() func(string) bool {
	var res []*regexp.Regexp
	for _, p := range c.Analysis.NoisePatterns {
		if re, err := regexp.Compile(p); err == nil {
			res = append(res, re)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return func(line string) bool {
		for _, re := range res {
			if re.MatchString(line) {
				return true
			}
		}
		return false
	}
}
