package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

func replayCmd() *cobra.Command {
	var out exportFlags
	cmd := &cobra.Command{
		Use:   "replay <logfile>",
		Short: "Import a flat combat log and export it",
		Long: `Replay a flat log (one "[hh:mm:ss.fff] <line>" per line) through the analyzer
and write the requested exports. The session is archived when the archive is enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			archive, closeArchive, err := openArchive(ctx, false)
			if err != nil {
				return err
			}
			defer closeArchive()

			svc, err := newService(archive, nil)
			if err != nil {
				return err
			}
			if err := svc.ImportFile(ctx, args[0]); err != nil {
				return errors.Errorf("replay: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Replayed %s: %d entries\n", args[0], svc.Store().Len())
			return out.write(ctx, svc)
		},
	}
	out.register(cmd)
	return cmd
}

func importCSVCmd() *cobra.Command {
	var out exportFlags
	cmd := &cobra.Command{
		Use:   "import-csv <csvfile>",
		Short: "Import a CSV log export and export it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			archive, closeArchive, err := openArchive(ctx, false)
			if err != nil {
				return err
			}
			defer closeArchive()

			svc, err := newService(archive, nil)
			if err != nil {
				return err
			}
			if err := svc.ImportCSV(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Imported %s: %d entries\n", args[0], svc.Store().Len())
			return out.write(ctx, svc)
		},
	}
	out.register(cmd)
	return cmd
}
