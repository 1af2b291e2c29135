package analyzer

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// csvTimeLayouts are tried in order for the time column of a CSV export.
var csvTimeLayouts = []string{
	"2006/01/02 15:04:05.000",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

func parseCSVTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range csvTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// beginImport marks the machine as importing, feeds the import sentinel and
// clears the session. The caller holds s.mu.
func (s *Service) beginImport() {
	s.machine.SetImporting(true)
	y, m, d := time.Now().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	s.feed(ingestor.Line{Raw: ingestor.FormatLine(midnight, ruleset.ImportLog), DetectedTime: midnight})
	s.machine.Reset()
	s.machine.ResetSession()
}

// endImport places the origin on the engage marker and archives the result.
// The caller holds s.mu.
func (s *Service) endImport(ctx context.Context) {
	s.machine.Reset()
	s.machine.SetImporting(false)
	s.setOriginToStartNow()
	s.archive(ctx, true)
}

// Import replays flat log lines, as written by the flat test log export,
// through the live classify and dispatch path. Times are placed on today.
// Lines without a readable time prefix are skipped.
func (s *Service) Import(ctx context.Context, lines []string) (err error) {
	ctx, span := tracing.Start(ctx, "analyzer.import", attribute.Int("lines", len(lines)))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.beginImport()
	today := time.Now()
	skipped := 0
	for _, raw := range lines {
		ts, ok := ingestor.ParseClock(raw, today)
		if !ok {
			skipped++
			continue
		}
		s.feed(ingestor.Line{Raw: raw, DetectedTime: ts})
	}
	s.endImport(ctx)

	s.log.Info().Int("lines", len(lines)).Int("skipped", skipped).Int("entries", s.store.Len()).Msg("log imported")
	return nil
}

// ImportFile reads a flat log file and imports it.
func (s *Service) ImportFile(ctx context.Context, path string) error {
	lines, err := ingestor.ReadLines(ctx, path)
	if err != nil {
		return errors.Errorf("import %s: %w", path, err)
	}
	return s.Import(ctx, lines)
}

// ImportCSV imports a CSV export of the host's log. Rows need at least six
// fields: the time in the second, the line in the fifth and the zone in the
// sixth. Rows are deduplicated and sanitized like live lines.
func (s *Service) ImportCSV(ctx context.Context, path string) (err error) {
	ctx, span := tracing.Start(ctx, "analyzer.import_csv", attribute.String("path", path))
	defer func() { tracing.End(span, err) }()

	f, err := os.Open(path)
	if err != nil {
		return errors.Errorf("import csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return errors.Errorf("import csv %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var dedup ingestor.Deduper
	sanitizer := s.newSanitizer()

	s.beginImport()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			s.endImport(ctx)
			return errors.Errorf("import csv: %w", err)
		}
		if len(rec) < 6 {
			continue
		}
		ts, ok := parseCSVTime(rec[1])
		if !ok {
			continue
		}
		body := rec[4]
		if len(body) <= 3 || dedup.Seen(body) {
			continue
		}
		line := ingestor.FormatLine(ts, body)
		cleaned, ok := sanitizer.Clean(line)
		if !ok {
			continue
		}
		s.feed(ingestor.Line{Raw: cleaned, DetectedTime: ts, Zone: strings.TrimSpace(rec[5])})
	}
	s.endImport(ctx)

	s.log.Info().Str("path", path).Int("rows", len(records)).Int("entries", s.store.Len()).Msg("csv imported")
	return nil
}
