package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/strrl/combatlog/pkg/store"
	"github.com/strrl/combatlog/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// RedactedID replaces position sync identifiers in flat logs.
const RedactedID = "00000000"

// flushThreshold is the buffered character count that triggers a write.
const flushThreshold = 5012

var idPlaceholders = []string{"(?<pcid>.{8})", "(?<actor_id>.{8})", "<id8>"}

// SaveTestLog writes the raw text of entries from the combat start onward to
// path as UTF-8 without a byte order mark. startNow identifies the combat
// start line when no entry is the origin.
func SaveTestLog(ctx context.Context, path string, entries []*store.Entry, startNow string) (err error) {
	_, span := tracing.Start(ctx, "export.testlog",
		attribute.String("dest", path), attribute.Int("entries", len(entries)))
	defer func() { tracing.End(span, err) }()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("create test log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Errorf("close test log: %w", cerr)
		}
	}()

	var buf strings.Builder
	for _, e := range entries[testLogStart(entries, startNow):] {
		buf.WriteString(redactIDs(e.Raw))
		buf.WriteByte('\n')
		if buf.Len() > flushThreshold {
			if _, err := f.WriteString(buf.String()); err != nil {
				return errors.Errorf("write test log: %w", err)
			}
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		if _, err := f.WriteString(buf.String()); err != nil {
			return errors.Errorf("write test log: %w", err)
		}
	}
	return nil
}

func testLogStart(entries []*store.Entry, startNow string) int {
	for i, e := range entries {
		if e.IsOrigin {
			return i
		}
	}
	if startNow != "" {
		for i, e := range entries {
			if strings.Contains(e.Raw, startNow) {
				return i
			}
		}
	}
	return 0
}

func redactIDs(raw string) string {
	for _, p := range idPlaceholders {
		raw = strings.ReplaceAll(raw, p, RedactedID)
	}
	return raw
}
