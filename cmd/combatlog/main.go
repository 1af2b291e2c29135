package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/strrl/combatlog/pkg/config"
	"github.com/strrl/combatlog/pkg/logging"
	"github.com/strrl/combatlog/pkg/tracing"
)

var (
	cfgPath string
	dbPath  string
	locale  string

	cfg           *config.Config
	shutdownTrace func(context.Context) error
)

func main() {
	// Load .env file if present (does not override existing env vars)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "combatlog",
		Short: "Combat log analyzer",
		Long: `combatlog classifies combat log lines, tracks engagements and exports them
as spreadsheets, draft timelines and flat logs for replay.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to combatlog.yaml")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to DuckDB archive (overrides config)")
	root.PersistentFlags().StringVarP(&locale, "locale", "l", "", "log locale: ja, en, fr, de, ko, cn, tw")

	root.AddCommand(replayCmd())
	root.AddCommand(importCSVCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(sessionsCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(unknownCmd())
	root.AddCommand(templateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cmd.Context(), cfgPath)
	if err != nil {
		return err
	}
	if locale != "" {
		cfg.Locale = locale
	}
	if dbPath != "" {
		cfg.Archive.Path = dbPath
		cfg.Archive.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}

	if err := logging.Init(cfg.Log); err != nil {
		return errors.Errorf("logging: %w", err)
	}

	shutdownTrace, err = tracing.Init(cmd.Context(), cfg.Tracing)
	if err != nil {
		return errors.Errorf("tracing: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if shutdownTrace == nil {
		return nil
	}
	return shutdownTrace(context.WithoutCancel(cmd.Context()))
}
