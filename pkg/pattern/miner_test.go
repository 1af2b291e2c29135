package pattern

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/strrl/combatlog/pkg/ruleset"
)

var unknownLines = []string{
	"[21:00:01.000] 26:Network tick 1 sent 120 bytes",
	"[21:00:02.000] 26:Network tick 2 sent 98 bytes",
	"[21:00:03.000] 26:Network tick 3 sent 101 bytes",
	"[21:00:04.000] 27:Waymark placed A at 100 200",
	"[21:00:05.000] 27:Waymark placed B at 110 210",
}

func TestMiner_AddAndClusters(t *testing.T) {
	m, err := NewMiner()
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	if err := m.Add(unknownLines...); err != nil {
		t.Fatalf("Add: %v", err)
	}

	clusters := m.Clusters()
	if len(clusters) == 0 {
		t.Fatal("expected at least one cluster")
	}
	if len(clusters) >= len(unknownLines) {
		t.Errorf("expected fewer clusters than lines, got %d for %d lines", len(clusters), len(unknownLines))
	}

	total := 0
	for i, c := range clusters {
		if c.ID == uuid.Nil {
			t.Error("expected non-nil UUID")
		}
		if strings.HasPrefix(c.Sample, "[") {
			t.Errorf("sample should not carry the time prefix: %q", c.Sample)
		}
		if i > 0 && clusters[i-1].Count < c.Count {
			t.Errorf("clusters not sorted by count: %d before %d", clusters[i-1].Count, c.Count)
		}
		total += c.Count
	}
	if total != len(unknownLines) {
		t.Errorf("expected total count %d, got %d", len(unknownLines), total)
	}
}

func TestMiner_Empty(t *testing.T) {
	m, err := NewMiner()
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	if got := m.Clusters(); len(got) != 0 {
		t.Errorf("expected 0 clusters, got %d", len(got))
	}
}

func TestMiner_AddUnknownSkipsClassifiedLines(t *testing.T) {
	m, err := NewMiner()
	if err != nil {
		t.Fatalf("NewMiner: %v", err)
	}
	lines := append([]string{
		"[21:00:00.000] 00:0039:Engage!",
		"[21:00:06.000] 00:0039:Titan uses Landslide.",
		"[21:01:00.000] 00:0039:has ended.",
	}, unknownLines...)

	n, err := m.AddUnknown(ruleset.MustGet(ruleset.EN), lines...)
	if err != nil {
		t.Fatalf("AddUnknown: %v", err)
	}
	if n != len(unknownLines) {
		t.Errorf("expected %d unknown lines, got %d", len(unknownLines), n)
	}
}

func TestDiscoverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combat.log")
	if err := os.WriteFile(path, []byte(strings.Join(unknownLines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	clusters, err := DiscoverFile(context.Background(), path, ruleset.MustGet(ruleset.EN))
	if err != nil {
		t.Fatalf("DiscoverFile: %v", err)
	}
	if len(clusters) == 0 {
		t.Fatal("expected clusters")
	}

	if _, err := DiscoverFile(context.Background(), filepath.Join(t.TempDir(), "missing.log"), ruleset.MustGet(ruleset.EN)); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMatch(t *testing.T) {
	id1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	id2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	clusters := []Cluster{
		{ID: id1, Template: "26 Network tick <*> sent <*> bytes"},
		{ID: id2, Template: "27 Waymark placed <*> at <*> <*>"},
	}

	c, ok := Match("[21:10:00.000] 26:Network tick 9 sent 5 bytes", clusters)
	if !ok || c.ID != id1 {
		t.Fatalf("expected %s, got %s (ok=%v)", id1, c.ID, ok)
	}
	c, ok = Match("27:Waymark placed C at 1 2", clusters)
	if !ok || c.ID != id2 {
		t.Fatalf("expected %s, got %s (ok=%v)", id2, c.ID, ok)
	}
	if _, ok := Match("28:Something else", clusters); ok {
		t.Error("expected no match")
	}

	r := Parser(clusters).Parse("26:Network tick 1 sent 2 bytes")
	if !r.Matched || r.Get("cluster") != id1.String() {
		t.Errorf("unexpected parser result %+v", r)
	}
	if Parser(clusters).Parse("nothing").Matched {
		t.Error("expected parser miss")
	}
}
