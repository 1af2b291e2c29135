// Package pattern clusters combat log lines that no keyword classifies, so
// new keywords can be found by looking at a handful of templates instead of
// thousands of lines.
package pattern

import (
	"context"
	"sort"
	"sync"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/jaeyo/go-drain3/pkg/drain3"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
)

// Cluster is a discovered line template.
type Cluster struct {
	ID       uuid.UUID
	Template string
	Count    int
	// Sample is the first line that created the cluster.
	Sample string
}

// Miner runs Drain over unclassified line bodies.
type Miner struct {
	mu      sync.Mutex
	drain   *drain3.Drain
	ids     map[int64]uuid.UUID
	samples map[int64]string
}

// NewMiner creates a Miner. Chat codes and key=value pairs are split on
// ':', '=' and ',' before clustering.
func NewMiner() (*Miner, error) {
	d, err := drain3.NewDrain(
		drain3.WithDepth(4),
		drain3.WithSimTh(0.4),
		drain3.WithExtraDelimiter(extraDelimiters),
	)
	if err != nil {
		return nil, errors.Errorf("create drain: %w", err)
	}
	return &Miner{
		drain:   d,
		ids:     make(map[int64]uuid.UUID),
		samples: make(map[int64]string),
	}, nil
}

// Add clusters raw lines. Time prefixes are stripped first.
func (m *Miner) Add(raws ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, raw := range raws {
		body := store.StripTimestamp(raw)
		if body == "" {
			continue
		}
		c, _, err := m.drain.AddLogMessage(body)
		if err != nil {
			return errors.Errorf("drain add: %w", err)
		}
		if c == nil {
			continue
		}
		if _, ok := m.ids[c.ClusterId]; !ok {
			m.ids[c.ClusterId] = uuid.New()
			m.samples[c.ClusterId] = body
		}
	}
	return nil
}

// AddUnknown adds only the lines rules classifies as Unknown and returns how
// many were added.
func (m *Miner) AddUnknown(rules *ruleset.RuleSet, raws ...string) (int, error) {
	var unknown []string
	for _, raw := range raws {
		if rules.Classify(raw) == ruleset.Unknown {
			unknown = append(unknown, raw)
		}
	}
	return len(unknown), m.Add(unknown...)
}

// Clusters returns every cluster, most frequent first.
func (m *Miner) Clusters() []Cluster {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := m.drain.GetClusters()
	out := make([]Cluster, 0, len(found))
	for _, c := range found {
		id, ok := m.ids[c.ClusterId]
		if !ok {
			continue
		}
		out = append(out, Cluster{
			ID:       id,
			Template: c.GetTemplate(),
			Count:    int(c.Size),
			Sample:   m.samples[c.ClusterId],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// DiscoverFile reads a log file and clusters its unclassified lines.
func DiscoverFile(ctx context.Context, path string, rules *ruleset.RuleSet) ([]Cluster, error) {
	lines, err := ingestor.ReadLines(ctx, path)
	if err != nil {
		return nil, errors.Errorf("discover %s: %w", path, err)
	}
	m, err := NewMiner()
	if err != nil {
		return nil, err
	}
	if _, err := m.AddUnknown(rules, lines...); err != nil {
		return nil, err
	}
	return m.Clusters(), nil
}
