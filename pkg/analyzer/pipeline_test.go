package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/strrl/combatlog/pkg/actor"
	"github.com/strrl/combatlog/pkg/export"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/pattern"
	"github.com/strrl/combatlog/pkg/querier"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const fixture = "testdata/navel.log"

// newArchive creates a fresh in-memory DuckDB archive with cleanup registered.
func newArchive(t *testing.T) *store.DuckDBStore {
	t.Helper()
	s, err := store.NewDuckDBStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Init(context.Background()))
	return s
}

func newPipelineService(t *testing.T, archive store.Archive) *Service {
	t.Helper()
	s, err := New(Options{
		Locale: ruleset.EN,
		Host: &StaticHost{
			Zone: "The Navel",
			Party: []actor.Combatant{
				actor.NewCombatant("Bob Smith", "PLD", true),
				actor.NewCombatant("Alice Jones", "WHM", false),
			},
		},
		Archive: archive,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return s
}

func TestPipeline_ReplayArchiveExport(t *testing.T) {
	ctx := context.Background()
	archive := newArchive(t)
	svc := newPipelineService(t, archive)

	require.NoError(t, svc.ImportFile(ctx, fixture))

	live := svc.Store().Snapshot()
	require.Len(t, live, 12)
	assert.Equal(t, store.CombatStart, live[0].LogType)
	assert.Equal(t, store.CombatEnd, live[len(live)-1].LogType)
	for _, e := range live {
		assert.NotEqual(t, "Alice Jones", e.Actor, "party members are not stored")
		assert.NotContains(t, e.Raw, "Bob Smith", "party names are replaced by job tags")
	}

	q := querier.NewQuerier(archive)
	sess, err := q.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Imported)
	assert.Equal(t, 12, sess.EntryCount)
	assert.Equal(t, "The Navel", sess.Zone)

	entries, err := q.BySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, entries, len(live))
	for i := range live {
		assert.Equal(t, live[i].Raw, entries[i].Raw)
		assert.Equal(t, live[i].Elapsed, entries[i].Elapsed)
		assert.InDelta(t, live[i].HPRate, entries[i].HPRate, 1e-9)
	}

	counts, err := q.Actors(ctx, sess.ID)
	require.NoError(t, err)
	require.NotEmpty(t, counts)
	assert.Equal(t, "Titan", counts[0].Actor)

	dir := t.TempDir()
	master := filepath.Join(dir, "CombatLogBase.xlsx")
	require.NoError(t, export.CreateMasterWorkbook(master))

	xlsxPath := filepath.Join(dir, "out", "navel.xlsx")
	sheet := &export.Spreadsheet{MasterPath: master}
	require.NoError(t, sheet.Save(ctx, xlsxPath, entries))

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, len(entries)+1)

	timelinePath := filepath.Join(dir, "out", "navel.xml")
	require.NoError(t, export.SaveDraftTimeline(ctx, &export.XMLTimeline{}, timelinePath, entries, ruleset.MustGet(ruleset.EN)))
	doc, err := os.ReadFile(timelinePath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `text="Rock Buster"`)
	assert.Contains(t, string(doc), `sync="^1B:[id8]:[mex]:0000:A9B1:0017:0000:0000:0000:"`)
	assert.Contains(t, string(doc), `notice="Next: Geocrush"`)
}

func TestPipeline_HPRateCarried(t *testing.T) {
	svc := newPipelineService(t, nil)
	require.NoError(t, svc.ImportFile(context.Background(), fixture))

	var geocrush *store.Entry
	for _, e := range svc.Store().Snapshot() {
		if e.Skill == "Geocrush" {
			geocrush = e
		}
	}
	require.NotNil(t, geocrush)
	assert.InDelta(t, 0.75, geocrush.HPRate, 1e-9)
}

func TestPipeline_UnknownLinesCluster(t *testing.T) {
	clusters, err := pattern.DiscoverFile(context.Background(), fixture, ruleset.MustGet(ruleset.EN))
	require.NoError(t, err)
	require.NotEmpty(t, clusters)

	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	assert.Equal(t, 3, total)

	lines, err := ingestor.ReadLines(context.Background(), fixture)
	require.NoError(t, err)
	var network string
	for _, l := range lines {
		if strings.Contains(l, "Network tick 1") {
			network = l
		}
	}
	_, ok := pattern.Match(network, clusters)
	assert.True(t, ok)
}
