package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/strrl/combatlog/pkg/analyzer"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/logging"
)

// fileFeed tails a file and delivers each line to the subscriber.
type fileFeed struct {
	ctx context.Context
	src ingestor.Ingestor
	log zerolog.Logger

	mu   sync.Mutex
	errs []error
}

var _ analyzer.Feed = (*fileFeed)(nil)

func (f *fileFeed) Subscribe(fn func(isImport bool, line ingestor.Line)) func() {
	ctx, cancel := context.WithCancel(f.ctx)
	ch, err := f.src.Ingest(ctx)
	if err != nil {
		cancel()
		f.fail(err)
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range ch {
			if r.Err != nil {
				f.fail(r.Err)
				continue
			}
			fn(false, *r.Value)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (f *fileFeed) fail(err error) {
	f.log.Error().Err(err).Msg("read log")
	f.mu.Lock()
	f.errs = append(f.errs, err)
	f.mu.Unlock()
}

func (f *fileFeed) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return errors.Join(f.errs...)
}

func watchCmd() *cobra.Command {
	var fromStart bool
	cmd := &cobra.Command{
		Use:   "watch <logfile>",
		Short: "Tail a growing combat log through the live analyzer",
		Long: `Follow a log file as it grows and analyze it live until interrupted.
Finished sessions are auto-exported and archived as configured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			archive, closeArchive, err := openArchive(ctx, false)
			if err != nil {
				return err
			}
			defer closeArchive()

			feed := &fileFeed{
				ctx: ctx,
				src: &ingestor.FileIngestor{
					Path:         args[0],
					Follow:       true,
					SkipExisting: !fromStart,
					PollInterval: cfg.Analysis.PollInterval,
				},
				log: logging.WithComponent("watch"),
			}
			svc, err := newService(archive, feed)
			if err != nil {
				return err
			}
			if err := svc.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", args[0])

			<-ctx.Done()
			if err := svc.Stop(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Stopped with %d entries in the current session\n", svc.Store().Len())
			return feed.err()
		},
	}
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "analyze lines already in the file before following")
	return cmd
}
