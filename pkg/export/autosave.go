package export

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/strrl/combatlog/pkg/store"
	"github.com/strrl/combatlog/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// AutoSaveNames returns the spreadsheet and flat log file names for a session.
func AutoSaveNames(entries []*store.Entry, startNow string) (xlsx, log string) {
	stem := autoSaveStem(entries, startNow)
	return stem + ".auto.xlsx", stem + ".auto.log"
}

func autoSaveStem(entries []*store.Entry, startNow string) string {
	if len(entries) == 0 {
		return "empty." + store.UnknownZone
	}
	zone := entries[0].Zone
	for _, e := range entries {
		if startNow != "" && strings.Contains(e.Raw, startNow) {
			zone = e.Zone
			break
		}
	}
	last := entries[len(entries)-1].Timestamp
	return last.Format("2006-01-02_1504") + "." + SanitizeFileName(zone)
}

// SanitizeFileName replaces spaces and characters invalid in file names with '_'.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == ' ':
			return '_'
		case strings.ContainsRune(`<>:"/\|?*`, r):
			return '_'
		}
		return r
	}, name)
}

// AutoSave writes the spreadsheet and flat log of entries into dir
// concurrently and returns both paths.
func AutoSave(ctx context.Context, sheet *Spreadsheet, dir string, entries []*store.Entry, startNow string) (xlsxPath, logPath string, err error) {
	ctx, span := tracing.Start(ctx, "export.autosave",
		attribute.String("dir", dir), attribute.Int("entries", len(entries)))
	defer func() { tracing.End(span, err) }()

	xlsxName, logName := AutoSaveNames(entries, startNow)
	xlsxPath = filepath.Join(dir, xlsxName)
	logPath = filepath.Join(dir, logName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sheet.Save(gctx, xlsxPath, entries)
	})
	g.Go(func() error {
		return SaveTestLog(gctx, logPath, entries, startNow)
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return xlsxPath, logPath, nil
}
