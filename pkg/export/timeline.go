package export

import (
	"context"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
	"github.com/strrl/combatlog/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// castShadow is how long a CastStart suppresses the matching Action.
const castShadow = 12 * time.Second

// Activity is one line of a draft timeline.
type Activity struct {
	Time        time.Duration
	Text        string
	SyncKeyword string
	Notice      string
	// Enabled is nil when the writer's default applies.
	Enabled *bool
}

// TimelineInfo is the timeline header.
type TimelineInfo struct {
	Name        string
	Revision    string
	Description string
	Author      string
	License     string
	Zone        string
	Locale      ruleset.Locale
}

// TimelineWriter persists a timeline.
type TimelineWriter interface {
	Add(a Activity)
	Save(path string) error
}

// HeaderWriter is implemented by writers that also persist the header.
type HeaderWriter interface {
	SetInfo(info TimelineInfo)
}

// DraftTimeline builds the header and activities of a draft timeline.
func DraftTimeline(entries []*store.Entry, rules *ruleset.RuleSet) (TimelineInfo, []Activity) {
	info := TimelineInfo{
		Revision: "draft",
		Author:   currentUser(),
		License:  "CC BY-SA 4.0",
		Locale:   rules.Locale,
		Zone:     store.UnknownZone,
	}
	if len(entries) > 0 {
		info.Zone = entries[0].Zone
	}
	info.Name = info.Zone + " draft timeline"
	info.Description = fmt.Sprintf("Generated from %d combat log records.", len(entries))

	notice := func(skill string) string {
		if rules.NoticeFormat == "" || skill == "" {
			return ""
		}
		return fmt.Sprintf(rules.NoticeFormat, skill)
	}

	var acts []Activity
	seen := func(t time.Duration, text, sync string, withSync bool) bool {
		for _, a := range acts {
			if a.Time == t && a.Text == text && (!withSync || a.SyncKeyword == sync) {
				return true
			}
		}
		return false
	}

	for i, e := range entries {
		switch e.LogType {
		case store.CastStart:
			acts = append(acts, Activity{
				Time:        e.Elapsed,
				Text:        e.Text,
				SyncKeyword: e.SyncKeyword,
				Notice:      notice(e.Skill),
			})
		case store.Action:
			if shadowedByCast(entries[:i], e) {
				continue
			}
			acts = append(acts, Activity{
				Time:        e.Elapsed,
				Text:        e.Text,
				SyncKeyword: e.SyncKeyword,
				Notice:      notice(e.Skill),
			})
		case store.Dialog:
			text := e.Text
			if text == "" {
				text = e.Activity
			}
			acts = append(acts, Activity{
				Time:        e.Elapsed,
				Text:        text,
				SyncKeyword: e.SyncKeyword,
			})
		case store.Added:
			if seen(e.Elapsed, e.Text, e.SyncKeyword, true) {
				continue
			}
			acts = append(acts, Activity{
				Time:        e.Elapsed,
				Text:        e.Text,
				SyncKeyword: e.SyncKeyword,
				Notice:      notice(e.Actor),
			})
		case store.Marker, store.Effect:
			if seen(e.Elapsed, e.Text, "", false) {
				continue
			}
			disabled := false
			acts = append(acts, Activity{
				Time:        e.Elapsed,
				Text:        e.Text,
				SyncKeyword: "^" + e.SyncKeyword,
				Enabled:     &disabled,
			})
		}
	}

	for i := range acts {
		acts[i].SyncKeyword = redactSyncIDs(acts[i].SyncKeyword)
	}
	return info, acts
}

// shadowedByCast reports whether a CastStart of the same skill precedes e by
// at most castShadow.
func shadowedByCast(before []*store.Entry, e *store.Entry) bool {
	for i := len(before) - 1; i >= 0; i-- {
		c := before[i]
		if c.LogType != store.CastStart || c.Skill != e.Skill {
			continue
		}
		d := e.Timestamp.Sub(c.Timestamp)
		return d >= 0 && d <= castShadow
	}
	return false
}

func redactSyncIDs(s string) string {
	s = strings.ReplaceAll(s, "<id8>", "[id8]")
	return strings.ReplaceAll(s, "<id4>", "[id4]")
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "anonymous"
}

// SaveDraftTimeline builds the draft timeline of entries and saves it through w.
func SaveDraftTimeline(ctx context.Context, w TimelineWriter, path string, entries []*store.Entry, rules *ruleset.RuleSet) (err error) {
	_, span := tracing.Start(ctx, "export.timeline",
		attribute.String("dest", path), attribute.Int("entries", len(entries)))
	defer func() { tracing.End(span, err) }()

	info, acts := DraftTimeline(entries, rules)
	if hw, ok := w.(HeaderWriter); ok {
		hw.SetInfo(info)
	}
	for _, a := range acts {
		w.Add(a)
	}
	return w.Save(path)
}
