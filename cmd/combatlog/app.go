package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/combatlog/pkg/actor"
	"github.com/strrl/combatlog/pkg/analyzer"
	"github.com/strrl/combatlog/pkg/export"
	"github.com/strrl/combatlog/pkg/logging"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
)

// newHost builds the analyzer host from configuration.
func newHost() *analyzer.StaticHost {
	party := make([]actor.Combatant, 0, len(cfg.Party))
	for _, m := range cfg.Party {
		party = append(party, actor.NewCombatant(m.Name, m.Job, m.Player))
	}
	log := logging.WithComponent("host")
	return &analyzer.StaticHost{
		Zone:   cfg.Zone,
		Party:  party,
		Ignore: cfg.Analysis.IgnoreKeywords,
		Noise:  cfg.NoiseMatcher(),
		OnDumpPosition: func() {
			log.Debug().Msg("combat started")
		},
	}
}

func newSpreadsheet() *export.Spreadsheet {
	return &export.Spreadsheet{
		MasterPath: cfg.Export.MasterWorkbook,
		WorkDir:    cfg.Export.WorkDir,
	}
}

// openArchive opens the configured DuckDB archive. The returned close
// function is a no-op when archiving is disabled and required is false.
func openArchive(ctx context.Context, required bool) (store.Archive, func(), error) {
	if !cfg.Archive.Enabled && !required {
		return nil, func() {}, nil
	}
	s, err := store.NewDuckDBStore(cfg.Archive.Path)
	if err != nil {
		return nil, nil, errors.Errorf("store: %w", err)
	}
	if err := s.Init(ctx); err != nil {
		_ = s.Close()
		return nil, nil, errors.Errorf("store init: %w", err)
	}
	return s, func() { _ = s.Close() }, nil
}

// newService builds an analyzer service from configuration.
func newService(archive store.Archive, feed analyzer.Feed) (*analyzer.Service, error) {
	return analyzer.New(analyzer.Options{
		Locale:        cfg.ResolvedLocale(),
		Host:          newHost(),
		Feed:          feed,
		Worlds:        cfg.Worlds,
		PollInterval:  cfg.Analysis.PollInterval,
		AutoSave:      cfg.Export.AutoSave,
		SaveDirectory: cfg.Export.SaveDirectory,
		Spreadsheet:   newSpreadsheet(),
		Archive:       archive,
		Logger:        logging.WithComponent("analyzer"),
	})
}

// exportFlags are the output paths shared by commands that produce exports.
type exportFlags struct {
	xlsx     string
	timeline string
	log      string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write the spreadsheet to this path")
	cmd.Flags().StringVar(&f.timeline, "timeline", "", "write a draft timeline to this path")
	cmd.Flags().StringVar(&f.log, "log", "", "write the flat test log to this path")
}

// writeEntries writes entries to every requested output.
func (f *exportFlags) writeEntries(ctx context.Context, entries []*store.Entry, rules *ruleset.RuleSet) error {
	if f.xlsx != "" {
		if err := newSpreadsheet().Save(ctx, f.xlsx, entries); err != nil {
			return errors.Errorf("spreadsheet: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Spreadsheet: %s\n", f.xlsx)
	}
	if f.timeline != "" {
		if err := export.SaveDraftTimeline(ctx, &export.XMLTimeline{}, f.timeline, entries, rules); err != nil {
			return errors.Errorf("timeline: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Timeline: %s\n", f.timeline)
	}
	if f.log != "" {
		if err := export.SaveTestLog(ctx, f.log, entries, rules.CombatStartNow); err != nil {
			return errors.Errorf("test log: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Flat log: %s\n", f.log)
	}
	return nil
}

// write writes the service's current combat log to every requested output.
func (f *exportFlags) write(ctx context.Context, svc *analyzer.Service) error {
	if f.xlsx != "" {
		if err := svc.ExportSpreadsheet(ctx, f.xlsx); err != nil {
			return errors.Errorf("spreadsheet: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Spreadsheet: %s\n", f.xlsx)
	}
	if f.timeline != "" {
		if err := svc.ExportTimeline(ctx, f.timeline); err != nil {
			return errors.Errorf("timeline: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Timeline: %s\n", f.timeline)
	}
	if f.log != "" {
		if err := svc.ExportTestLog(ctx, f.log); err != nil {
			return errors.Errorf("test log: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Flat log: %s\n", f.log)
	}
	return nil
}
