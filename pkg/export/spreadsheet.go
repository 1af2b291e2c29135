package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/strrl/combatlog/pkg/store"
	"github.com/strrl/combatlog/pkg/tracing"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// SheetName is the worksheet rows are written to.
	SheetName = "CombatLog"
	// DefaultMasterPath is the master workbook shipped next to the binary.
	DefaultMasterPath = "resources/CombatLogBase.xlsx"
)

// firstDataRow is the 1-based row below the template's header.
const firstDataRow = 2

var (
	ErrMasterWorkbookNotFound = errors.New("master workbook not found")
	ErrSheetNotFound          = errors.New("sheet " + SheetName + " not found in master workbook")
)

// Columns are the spreadsheet headers in write order.
var Columns = []string{
	"No", "Time", "Elapsed", "Type", "Actor", "HP", "Activity",
	"Log", "Text", "Sync", "Timestamp", "Zone",
}

var columnFormats = []string{
	"#,##0_ ",
	"mm:ss",
	"#,##0_ ",
	"@",
	"@",
	"0.0%",
	"@",
	"@",
	"@",
	"@",
	"yyyy-mm-dd hh:mm:ss.000",
	"@",
}

// Spreadsheet writes entries into a copy of a master workbook.
type Spreadsheet struct {
	// MasterPath is the template workbook.
	MasterPath string
	// WorkDir holds the transient working copy; defaults to MasterPath's directory.
	WorkDir string
}

// saveMu serializes saves. Every Spreadsheet sharing a master uses the same
// working copy path.
var saveMu sync.Mutex

// Save writes entries to dest, replacing any existing file. Saves run one at
// a time.
func (s *Spreadsheet) Save(ctx context.Context, dest string, entries []*store.Entry) (err error) {
	_, span := tracing.Start(ctx, "export.spreadsheet",
		attribute.String("dest", dest), attribute.Int("entries", len(entries)))
	defer func() { tracing.End(span, err) }()

	saveMu.Lock()
	defer saveMu.Unlock()

	if _, err := os.Stat(s.MasterPath); err != nil {
		return errors.Errorf("%s: %w", s.MasterPath, ErrMasterWorkbookNotFound)
	}

	workDir := s.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(s.MasterPath)
	}
	base := filepath.Base(s.MasterPath)
	work := filepath.Join(workDir, base[:len(base)-len(filepath.Ext(base))]+"_work"+filepath.Ext(base))

	if err := copyFile(s.MasterPath, work); err != nil {
		return errors.Errorf("copy master workbook: %w", err)
	}
	defer func() { _ = os.Remove(work) }()

	f, err := excelize.OpenFile(work)
	if err != nil {
		return errors.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
		return ErrSheetNotFound
	}

	styles, err := columnStyles(f)
	if err != nil {
		return err
	}

	today := time.Now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for i, e := range entries {
		row := firstDataRow + i
		elapsed := e.Elapsed
		if elapsed < 0 {
			elapsed = 0
		}
		clock := midnight.Add(time.Duration(int(elapsed.Minutes()))*time.Minute + time.Duration(int(elapsed.Seconds())%60)*time.Second)
		values := []any{
			e.No,
			clock,
			e.Elapsed.Seconds(),
			e.LogType.Text(),
			e.Actor,
			e.HPRate,
			e.Activity,
			e.RawWithoutTimestamp(),
			e.Text,
			e.SyncKeyword,
			wallClock(e.Timestamp),
			e.Zone,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return errors.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return errors.Errorf("set %s: %w", cell, err)
			}
			if err := f.SetCellStyle(SheetName, cell, cell, styles[col]); err != nil {
				return errors.Errorf("style %s: %w", cell, err)
			}
		}
	}

	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("remove existing %s: %w", dest, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Errorf("create destination directory: %w", err)
	}
	if err := f.SaveAs(dest); err != nil {
		return errors.Errorf("save workbook: %w", err)
	}
	return nil
}

// wallClock keeps the local date and time fields and drops the zone, so the
// workbook shows the time the line was seen.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func columnStyles(f *excelize.File) ([]int, error) {
	ids := make([]int, len(columnFormats))
	for i, format := range columnFormats {
		nf := format
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &nf})
		if err != nil {
			return nil, errors.Errorf("style %q: %w", format, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// CreateMasterWorkbook writes an empty master workbook with the header row.
func CreateMasterWorkbook(path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Errorf("rename sheet: %w", err)
	}
	for i, h := range Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errors.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return errors.Errorf("set header: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Errorf("save master workbook: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
