package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/combatlog/pkg/querier"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
)

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List archived sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			archive, closeArchive, err := openArchive(ctx, true)
			if err != nil {
				return err
			}
			defer closeArchive()

			sessions, err := querier.NewQuerier(archive).Sessions(ctx)
			if err != nil {
				return errors.Errorf("query: %w", err)
			}

			fmt.Printf("%-36s %-19s %-9s %-7s %-6s %s\n", "ID", "STARTED", "DURATION", "ENTRIES", "LOCALE", "ZONE")
			for _, s := range sessions {
				imported := ""
				if s.Imported {
					imported = " (imported)"
				}
				fmt.Printf("%-36s %-19s %-9s %-7d %-6s %s%s\n",
					s.ID, s.StartedAt.Format("2006-01-02 15:04:05"),
					s.EndedAt.Sub(s.StartedAt).Truncate(time.Second), s.EntryCount, s.Locale, s.Zone, imported)
			}
			fmt.Fprintf(os.Stderr, "\n%d sessions\n", len(sessions))
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	var (
		logType string
		actorF  string
		limit   int
		actors  bool
	)
	cmd := &cobra.Command{
		Use:   "query [session]",
		Short: "Query archived entries",
		Long: `Print archived entries of a session (an ID, a unique ID prefix, or "latest").
Without a session, entries of every session are searched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			archive, closeArchive, err := openArchive(ctx, true)
			if err != nil {
				return err
			}
			defer closeArchive()

			q := querier.NewQuerier(archive)
			opts := store.QueryOpts{Actor: actorF, Limit: limit}
			if logType != "" {
				lt, ok := store.ParseLogType(logType)
				if !ok {
					return errors.Errorf("unknown log type %q", logType)
				}
				opts.LogType = lt.String()
			}
			if len(args) == 1 {
				s, err := q.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				opts.SessionID = s.ID
			}

			if actors {
				if len(args) == 0 {
					return errors.New("--actors needs a session")
				}
				counts, err := q.Actors(ctx, opts.SessionID)
				if err != nil {
					return errors.Errorf("query: %w", err)
				}
				fmt.Printf("%-8s %s\n", "COUNT", "ACTOR")
				for _, c := range counts {
					fmt.Printf("%-8d %s\n", c.Count, c.Actor)
				}
				return nil
			}

			entries, err := q.Search(ctx, opts)
			if err != nil {
				return errors.Errorf("query: %w", err)
			}
			for _, e := range entries {
				fmt.Printf("%5d %8.1f %-12s %s\n", e.No, e.Elapsed.Seconds(), e.LogType.Text(), e.Raw)
			}
			fmt.Fprintf(os.Stderr, "\n%d entries found\n", len(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&logType, "type", "", "filter by log type (e.g. Action, CastStart, Marker)")
	cmd.Flags().StringVar(&actorF, "actor", "", "filter by actor")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries")
	cmd.Flags().BoolVar(&actors, "actors", false, "summarize the session by actor instead")
	return cmd
}

func exportCmd() *cobra.Command {
	var out exportFlags
	cmd := &cobra.Command{
		Use:   "export <session>",
		Short: "Export an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			archive, closeArchive, err := openArchive(ctx, true)
			if err != nil {
				return err
			}
			defer closeArchive()

			q := querier.NewQuerier(archive)
			s, err := q.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			entries, err := q.BySession(ctx, s.ID)
			if err != nil {
				return errors.Errorf("query: %w", err)
			}
			rules, err := ruleset.Get(ruleset.Locale(s.Locale))
			if err != nil {
				rules = ruleset.MustGet(cfg.ResolvedLocale())
			}
			return out.writeEntries(ctx, entries, rules)
		},
	}
	out.register(cmd)
	return cmd
}
