package analyzer

import (
	"context"

	"github.com/strrl/combatlog/pkg/export"
)

// ExportSpreadsheet writes the current combat log to path.
func (s *Service) ExportSpreadsheet(ctx context.Context, path string) error {
	return s.opts.Spreadsheet.Save(ctx, path, s.store.Snapshot())
}

// ExportTimeline writes a draft timeline of the current combat log to path.
func (s *Service) ExportTimeline(ctx context.Context, path string) error {
	return export.SaveDraftTimeline(ctx, &export.XMLTimeline{}, path, s.store.Snapshot(), s.rules)
}

// ExportTestLog writes the flat log of the current combat to path.
func (s *Service) ExportTestLog(ctx context.Context, path string) error {
	s.setOriginToStartNow()
	return export.SaveTestLog(ctx, path, s.store.Snapshot(), s.rules.CombatStartNow)
}
