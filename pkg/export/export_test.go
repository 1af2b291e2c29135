package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var t0 = time.Date(2026, 10, 18, 21, 0, 0, 0, time.Local)

func at(sec float64, lt store.LogType, raw string) *store.Entry {
	d := time.Duration(sec * float64(time.Second))
	return &store.Entry{
		Timestamp: t0.Add(d),
		Elapsed:   d,
		LogType:   lt,
		Raw:       raw,
		Zone:      "The Navel",
	}
}

func sampleEntries() []*store.Entry {
	start := at(0, store.CombatStart, "[21:00:00.000] 00:0039:Engage!")
	start.IsOrigin = true
	start.No = 1
	start.Activity = "CombatStart"

	cast := at(2, store.CastStart, "[21:00:02.000] 00:002b:Titan readies Landslide.")
	cast.No, cast.Actor, cast.Skill, cast.Text = 2, "Titan", "Landslide", "Landslide"
	cast.Activity = "Landslide Start"
	cast.SyncKeyword = "Titan readies Landslide."

	action := at(5, store.Action, "[21:00:05.000] 00:0039:Titan uses Landslide.")
	action.No, action.Actor, action.Skill, action.Text = 3, "Titan", "Landslide", "Landslide"
	action.Activity = "Landslide"
	action.SyncKeyword = "Titan uses Landslide."
	action.HPRate = 0.75

	late := at(30, store.Action, "[21:00:30.000] 00:0039:Titan uses Landslide.")
	late.No, late.Actor, late.Skill, late.Text = 4, "Titan", "Landslide", "Landslide"
	late.SyncKeyword = "Titan uses Landslide."

	marker := at(31, store.Marker, "[21:00:31.000] 1B:<id8>:[pc]:0000:A9B1:0017:0000:0000:0000:")
	marker.No, marker.Activity, marker.Text = 5, "Marker:0017", "Marker:0017"
	marker.SyncKeyword = "1B:<id8>:[pc]:0000:A9B1:0017:0000:0000:0000:"
	dup := marker.Clone()
	dup.No = 6

	added := at(32, store.Added, "[21:00:32.000] 00:0000:[EX] Added new combatant. name=Gaol X=1")
	added.No, added.Actor, added.Activity, added.Text = 7, "Gaol", "Added", "Add Gaol"
	added.SyncKeyword = "00:0000:[EX] Added new combatant"
	addedDup := added.Clone()
	addedDup.No = 8

	end := at(60, store.CombatEnd, "[21:01:00.000] 00:0039:has ended.")
	end.No, end.Activity = 9, "CombatEnd"

	return []*store.Entry{start, cast, action, late, marker, dup, added, addedDup, end}
}

func TestDraftTimeline(t *testing.T) {
	info, acts := DraftTimeline(sampleEntries(), ruleset.MustGet(ruleset.EN))

	assert.Equal(t, "The Navel", info.Zone)
	assert.Equal(t, "The Navel draft timeline", info.Name)
	assert.Equal(t, "draft", info.Revision)
	assert.Equal(t, ruleset.EN, info.Locale)

	require.Len(t, acts, 4)

	assert.Equal(t, 2*time.Second, acts[0].Time)
	assert.Equal(t, "Landslide", acts[0].Text)
	assert.Equal(t, "Next: Landslide", acts[0].Notice)
	assert.Nil(t, acts[0].Enabled)

	// The action at 5s is shadowed by the cast at 2s; the one at 30s is not.
	assert.Equal(t, 30*time.Second, acts[1].Time)

	assert.Equal(t, "^1B:[id8]:[pc]:0000:A9B1:0017:0000:0000:0000:", acts[2].SyncKeyword)
	require.NotNil(t, acts[2].Enabled)
	assert.False(t, *acts[2].Enabled)

	assert.Equal(t, "Add Gaol", acts[3].Text)
	assert.Equal(t, "Next: Gaol", acts[3].Notice)
	assert.Equal(t, "00:0000:[EX] Added new combatant", acts[3].SyncKeyword)
}

func TestXMLTimeline_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "draft.xml")
	w := &XMLTimeline{}
	require.NoError(t, SaveDraftTimeline(context.Background(), w, path, sampleEntries(), ruleset.MustGet(ruleset.EN)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<name>The Navel draft timeline</name>")
	assert.Contains(t, doc, "<rev>draft</rev>")
	assert.Contains(t, doc, `<a time="002.0" text="Landslide" sync="Titan readies Landslide." notice="Next: Landslide"></a>`)
	assert.Contains(t, doc, `enabled="false"`)
}

func TestSaveTestLog(t *testing.T) {
	entries := sampleEntries()
	pre := at(-5, store.Dialog, "[20:59:55.000] 00:0044:Titan:Come!")
	entries = append([]*store.Entry{pre}, entries...)

	path := filepath.Join(t.TempDir(), "flat.log")
	require.NoError(t, SaveTestLog(context.Background(), path, entries, "0039:Engage!"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(data), "\ufeff"))

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, len(entries)-1, "starts at the origin")
	assert.Equal(t, "[21:00:00.000] 00:0039:Engage!", lines[0])
	assert.Equal(t, "[21:00:31.000] 1B:00000000:[pc]:0000:A9B1:0017:0000:0000:0000:", lines[4])
}

func TestSaveTestLog_FallsBackToStartMarker(t *testing.T) {
	entries := sampleEntries()
	for _, e := range entries {
		e.IsOrigin = false
	}
	assert.Equal(t, 0, testLogStart(entries, "0039:Engage!"))
	assert.Equal(t, 0, testLogStart(entries[1:], "0039:Engage!"))
	assert.Equal(t, 2, testLogStart(entries, "Titan uses"))
}

func TestSaveTestLog_LargeBatchFlushes(t *testing.T) {
	var entries []*store.Entry
	for i := 0; i < 500; i++ {
		entries = append(entries, at(float64(i), store.Action, "[21:00:00.000] 00:0039:Titan uses Landslide."))
	}
	path := filepath.Join(t.TempDir(), "big.log")
	require.NoError(t, SaveTestLog(context.Background(), path, entries, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 500, strings.Count(string(data), "\n"))
}

func newMaster(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources", "CombatLogBase.xlsx")
	require.NoError(t, CreateMasterWorkbook(path))
	return path
}

func TestSpreadsheet_Save(t *testing.T) {
	master := newMaster(t)
	dest := filepath.Join(t.TempDir(), "exports", "combat.xlsx")
	sheet := &Spreadsheet{MasterPath: master}

	entries := sampleEntries()
	require.NoError(t, sheet.Save(context.Background(), dest, entries))

	_, err := os.Stat(filepath.Join(filepath.Dir(master), "CombatLogBase_work.xlsx"))
	assert.True(t, os.IsNotExist(err), "work file removed")

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, len(entries)+1)
	assert.Equal(t, Columns, rows[0])

	action := rows[3]
	assert.Equal(t, "3", action[0])
	assert.Equal(t, "5", action[2])
	assert.Equal(t, "Action", action[3])
	assert.Equal(t, "Titan", action[4])
	assert.Equal(t, "0.75", action[5])
	assert.Equal(t, "00:0039:Titan uses Landslide.", action[7])
	assert.Equal(t, "The Navel", action[11])

	assert.Equal(t, "Starts Using", rows[2][3])

	// Saving again replaces the destination.
	require.NoError(t, sheet.Save(context.Background(), dest, entries[:1]))
}

func TestSpreadsheet_ConcurrentSavesShareMaster(t *testing.T) {
	master := newMaster(t)
	out := t.TempDir()
	entries := sampleEntries()

	const workers, rounds = 8, 10
	errs := make(chan error, workers*rounds)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// separate values with the same master share one working copy path
			sheet := &Spreadsheet{MasterPath: master}
			for r := 0; r < rounds; r++ {
				dest := filepath.Join(out, fmt.Sprintf("w%d_r%d.xlsx", w, r))
				errs <- sheet.Save(context.Background(), dest, entries)
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	files, err := filepath.Glob(filepath.Join(out, "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, files, workers*rounds)

	_, err = os.Stat(filepath.Join(filepath.Dir(master), "CombatLogBase_work.xlsx"))
	assert.True(t, os.IsNotExist(err), "work file removed")
}

func TestSpreadsheet_MissingMaster(t *testing.T) {
	sheet := &Spreadsheet{MasterPath: filepath.Join(t.TempDir(), "missing.xlsx")}
	err := sheet.Save(context.Background(), filepath.Join(t.TempDir(), "out.xlsx"), sampleEntries())
	assert.ErrorIs(t, err, ErrMasterWorkbookNotFound)
}

func TestSpreadsheet_MissingSheet(t *testing.T) {
	master := filepath.Join(t.TempDir(), "other.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(master))
	require.NoError(t, f.Close())

	sheet := &Spreadsheet{MasterPath: master}
	err := sheet.Save(context.Background(), filepath.Join(t.TempDir(), "out.xlsx"), sampleEntries())
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestAutoSaveNames(t *testing.T) {
	entries := sampleEntries()
	entries[1].Zone = "Somewhere Else"
	xlsx, log := AutoSaveNames(entries, "0039:Engage!")
	assert.Equal(t, "2026-10-18_2101.The_Navel.auto.xlsx", xlsx)
	assert.Equal(t, "2026-10-18_2101.The_Navel.auto.log", log)

	assert.Equal(t, "a_b_c_d", SanitizeFileName("a b:c?d"))
}

func TestAutoSave(t *testing.T) {
	master := newMaster(t)
	dir := t.TempDir()

	xlsxPath, logPath, err := AutoSave(context.Background(), &Spreadsheet{MasterPath: master}, dir, sampleEntries(), "0039:Engage!")
	require.NoError(t, err)

	for _, p := range []string{xlsxPath, logPath} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
		assert.Equal(t, dir, filepath.Dir(p))
	}
}
