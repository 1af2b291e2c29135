// Package analyzer runs the combat log engine: it queues host lines, polls
// them through the session machine, and exports finished sessions.
package analyzer

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	"github.com/strrl/combatlog/pkg/actor"
	"github.com/strrl/combatlog/pkg/export"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/session"
	"github.com/strrl/combatlog/pkg/store"
	"golang.org/x/sync/errgroup"
)

// DefaultPollInterval is used when Options.PollInterval is zero.
const DefaultPollInterval = 100 * time.Millisecond

// Options configures a Service.
type Options struct {
	Locale ruleset.Locale
	Host   Host
	// Feed is subscribed on Start when set.
	Feed         Feed
	Worlds       []string
	PollInterval time.Duration

	AutoSave      bool
	SaveDirectory string
	Spreadsheet   *export.Spreadsheet

	// Archive receives every finished session when set.
	Archive store.Archive
	Logger  zerolog.Logger
}

// Service is the combat log engine. Construct one with New and drive it with
// Start and Stop.
type Service struct {
	opts    Options
	rules   *ruleset.RuleSet
	store   *store.Memory
	actors  *actor.Filter
	machine *session.Machine
	queue   ingestor.Queue
	log     zerolog.Logger

	// mu serializes the machine between the poller and imports.
	mu        sync.Mutex
	sanitizer *ingestor.Sanitizer

	enabled atomic.Bool

	lifecycle   sync.Mutex
	runCtx      context.Context
	cancel      context.CancelFunc
	group       *errgroup.Group
	unsubscribe func()
}

// New builds a Service. It does not start polling.
func New(opts Options) (*Service, error) {
	if opts.Host == nil {
		return nil, errors.New("analyzer: host is required")
	}
	rules, err := ruleset.Get(opts.Locale)
	if err != nil {
		return nil, errors.Errorf("analyzer: %w", err)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Spreadsheet == nil {
		opts.Spreadsheet = &export.Spreadsheet{MasterPath: export.DefaultMasterPath}
	}

	s := &Service{
		opts:   opts,
		rules:  rules,
		store:  store.NewMemory(opts.Host.CurrentZone),
		actors: actor.NewFilter(opts.Host, opts.Locale),
		log:    opts.Logger,
		runCtx: context.Background(),
	}
	s.machine = session.New(session.Config{
		Rules:    rules,
		Store:    s.store,
		Actors:   s.actors,
		Listener: s,
		Logger:   opts.Logger,
	})
	s.sanitizer = s.newSanitizer()
	return s, nil
}

// Store returns the in-process combat log.
func (s *Service) Store() *store.Memory {
	return s.store
}

// Rules returns the active rule set.
func (s *Service) Rules() *ruleset.RuleSet {
	return s.rules
}

// State returns the session state.
func (s *Service) State() session.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

func (s *Service) newSanitizer() *ingestor.Sanitizer {
	return ingestor.NewSanitizer(s.opts.Host.IgnoreKeywords(), s.opts.Worlds, s.opts.Host.IsNoise)
}

// Start clears the queue, returns the machine to Idle and starts the poller.
// Starting a running Service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.cancel != nil {
		return nil
	}

	s.queue.Clear()
	s.mu.Lock()
	s.machine.Reset()
	s.sanitizer = s.newSanitizer()
	s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	s.runCtx = gctx
	g.Go(func() error {
		s.pollLoop(gctx)
		return nil
	})
	s.cancel, s.group = cancel, g

	if s.opts.Feed != nil {
		s.unsubscribe = s.opts.Feed.Subscribe(s.OnLine)
	}
	s.enabled.Store(true)
	s.log.Info().Str("locale", string(s.rules.Locale)).Dur("interval", s.opts.PollInterval).Msg("analyzer started")
	return nil
}

// Stop unsubscribes from the feed, waits for the in-flight batch and clears
// the queue. Stopping a stopped Service is a no-op.
func (s *Service) Stop() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.cancel == nil {
		return nil
	}

	s.enabled.Store(false)
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.cancel()
	err := s.group.Wait()
	s.cancel, s.group = nil, nil
	s.runCtx = context.Background()

	s.queue.Clear()
	s.log.Info().Msg("analyzer stopped")
	return err
}

// OnLine enqueues a host line while the Service is running. It never blocks
// on the poller.
func (s *Service) OnLine(isImport bool, line ingestor.Line) {
	if !s.enabled.Load() {
		return
	}
	if line.DetectedTime.IsZero() {
		line.DetectedTime = time.Now()
	}
	s.queue.Enqueue(line)
}

func (s *Service) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

// poll drains the queue and feeds the batch in order. Repeats within the
// batch's recent-line window are skipped. It returns the number of lines fed.
func (s *Service) poll() int {
	batch := s.queue.Drain()
	if len(batch) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var dedup ingestor.Deduper
	fed := 0
	for _, line := range batch {
		if dedup.Seen(line.Raw) {
			continue
		}
		raw, ok := s.sanitizer.Clean(line.Raw)
		if !ok {
			continue
		}
		line.Raw = raw
		s.feed(line)
		fed++
		runtime.Gosched()
	}
	return fed
}

// feed runs one line through the machine, dropping it on panic.
func (s *Service) feed(line ingestor.Line) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Str("raw", line.Raw).Msg("line dropped")
		}
	}()
	s.machine.Feed(line)
}

// CombatStarted implements session.Listener.
func (s *Service) CombatStarted() {
	s.opts.Host.DumpPosition()
}

// CombatEnded implements session.Listener.
func (s *Service) CombatEnded(importing bool) {
	if importing {
		return
	}
	ctx := context.WithoutCancel(s.runCtx)
	if _, _, err := s.AutoExport(ctx); err != nil {
		s.log.Error().Err(err).Msg("auto export failed")
	}
	s.archive(ctx, false)
}

// AutoExport re-derives the origin and writes the spreadsheet and flat log
// into the save directory. It does nothing unless auto save is configured.
func (s *Service) AutoExport(ctx context.Context) (xlsxPath, logPath string, err error) {
	if !s.opts.AutoSave || s.opts.SaveDirectory == "" {
		return "", "", nil
	}
	s.setOriginToStartNow()
	entries := s.store.Snapshot()
	if len(entries) == 0 {
		return "", "", nil
	}
	xlsxPath, logPath, err = export.AutoSave(ctx, s.opts.Spreadsheet, s.opts.SaveDirectory, entries, s.rules.CombatStartNow)
	if err != nil {
		return "", "", errors.Errorf("auto export: %w", err)
	}
	s.log.Info().Str("xlsx", xlsxPath).Str("log", logPath).Int("entries", len(entries)).Msg("auto export written")
	return xlsxPath, logPath, nil
}

func (s *Service) setOriginToStartNow() bool {
	startNow := s.rules.CombatStartNow
	return s.store.SetOriginWhere(func(e *store.Entry) bool {
		return strings.Contains(e.Raw, startNow)
	})
}

func (s *Service) archive(ctx context.Context, imported bool) {
	if s.opts.Archive == nil {
		return
	}
	entries := s.store.Snapshot()
	if len(entries) == 0 {
		return
	}
	sess := store.NewSession(entries, string(s.rules.Locale), imported)
	if err := s.opts.Archive.SaveSession(ctx, sess, entries); err != nil {
		s.log.Error().Err(err).Str("session", sess.ID.String()).Msg("archive session failed")
		return
	}
	s.log.Debug().Str("session", sess.ID.String()).Int("entries", len(entries)).Msg("session archived")
}
