package session

import (
	"strconv"
	"strings"

	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
)

// syncOffset skips the "00:xxxx:" chat code in sync keywords.
const syncOffset = 8

const id8Placeholder = "<id8>"

// dispatch binds one line to the Machine for a single Category.Accept call.
type dispatch struct {
	m    *Machine
	line ingestor.Line
}

var _ ruleset.Visitor = (*dispatch)(nil)

func (d *dispatch) VisitUnknown()         {}
func (d *dispatch) VisitPet()             {}
func (d *dispatch) VisitCastStartsUsing() {}
func (d *dispatch) VisitTimelineStart()   {}

func (d *dispatch) VisitStart() { d.m.startCombat(d.line) }
func (d *dispatch) VisitEnd()   { d.m.endCombat(d.line) }

func (d *dispatch) VisitRecord() {
	d.m.put(d.m.entry(d.line, store.Unknown))
}

func (d *dispatch) VisitAction() {
	r := d.m.rules.Parse(ruleset.ActionRegex, d.line.Raw)
	if !r.Matched {
		return
	}
	a := r.Get("actor")
	if !d.m.actors.ShouldStore(a) {
		return
	}
	e := d.m.entry(d.line, store.Action)
	e.Actor = a
	e.Skill = r.Get("skill")
	e.Activity = e.Skill
	e.Text = e.Skill
	e.SyncKeyword = from(e.RawWithoutTimestamp(), syncOffset)
	d.m.put(e)
}

func (d *dispatch) VisitCast() {
	r := d.m.rules.Parse(ruleset.CastRegex, d.line.Raw)
	if !r.Matched {
		return
	}
	a := r.Get("actor")
	if !d.m.actors.ShouldStore(a) {
		return
	}
	e := d.m.entry(d.line, store.CastStart)
	e.Actor = a
	e.Skill = r.Get("skill")
	e.Activity = e.Skill + " Start"
	e.Text = e.Skill
	e.SyncKeyword = from(e.RawWithoutTimestamp(), syncOffset)
	d.m.put(e)
}

func (d *dispatch) VisitAdded() {
	r := d.m.rules.Parse(ruleset.AddedRegex, d.line.Raw)
	if !r.Matched {
		return
	}
	a := r.Get("actor")
	if !d.m.actors.ShouldStore(a) {
		return
	}
	e := d.m.entry(d.line, store.Added)
	e.Actor = a
	e.Activity = "Added"
	e.Text = "Add " + a
	sync := e.RawWithoutTimestamp()
	if i := strings.Index(sync, "."); i >= 0 {
		sync = sync[:i]
	}
	e.SyncKeyword = sync
	d.m.put(e)
}

func (d *dispatch) VisitEffect() {
	r := d.m.rules.Parse(ruleset.EffectRegex, d.line.Raw)
	if !r.Matched {
		return
	}
	victim, a := r.Get("victim"), r.Get("actor")
	if victim == a || !d.m.actors.ShouldStore(a) {
		return
	}
	e := d.m.entry(d.line, store.Effect)
	e.Raw = replace(e.Raw, victim, d.m.actors.NameToJobTag(victim))
	e.Actor = a
	e.Activity = "effect " + r.Get("effect")
	e.Text = e.Activity
	e.SyncKeyword = e.RawWithoutTimestamp()
	d.m.put(e)
}

func (d *dispatch) VisitMarker() {
	e := d.m.entry(d.line, store.Marker)
	if r := d.m.rules.Parse(ruleset.MarkerRegex, d.line.Raw); r.Matched {
		target := r.Get("target")
		e.Raw = replace(e.Raw, r.Get("id"), id8Placeholder)
		e.Raw = replace(e.Raw, target, d.m.actors.NameToJobTag(target))
		e.Activity = "Marker:" + r.Get("type")
	} else if r := d.m.rules.Parse(ruleset.MarkingRegex, d.line.Raw); r.Matched {
		target := r.Get("target")
		e.Raw = replace(e.Raw, target, d.m.actors.NameToJobTag(target))
		e.Activity = "Marking"
	} else {
		return
	}
	e.Text = e.Activity
	e.SyncKeyword = e.RawWithoutTimestamp()
	d.m.put(e)
}

func (d *dispatch) VisitHPRate() {
	r := d.m.rules.Parse(ruleset.HPRateRegex, d.line.Raw)
	if !r.Matched {
		return
	}
	a := r.Get("actor")
	if !d.m.actors.ShouldStore(a) {
		return
	}
	pct, err := strconv.ParseFloat(r.Get("hprate"), 64)
	if err != nil {
		pct = 0
	}
	d.m.store.SetHPRate(a, pct/100)
}

func (d *dispatch) VisitDialogue() {
	r := d.m.rules.Parse(ruleset.DialogRegex, d.line.Raw)
	if !r.Matched {
		return
	}
	e := d.m.entry(d.line, store.Dialog)
	e.Activity = "Dialog"
	if strings.Contains(d.line.Raw, ":0839") {
		e.Activity = "System"
	}
	e.SyncKeyword = from(e.RawWithoutTimestamp(), syncOffset)
	d.m.put(e)
}

func (m *Machine) storeBoundary(line ingestor.Line, rx ruleset.Extractor, lt store.LogType, activity string) {
	if !m.rules.Parse(rx, line.Raw).Matched {
		return
	}
	e := m.entry(line, lt)
	e.Activity = activity
	e.Text = activity
	e.SyncKeyword = from(e.RawWithoutTimestamp(), syncOffset)
	m.put(e)
}

func (m *Machine) entry(line ingestor.Line, lt store.LogType) *store.Entry {
	return &store.Entry{
		Timestamp: line.DetectedTime,
		Raw:       line.Raw,
		LogType:   lt,
		Zone:      line.Zone,
	}
}

func (m *Machine) put(e *store.Entry) {
	m.store.Store(e)
}

// from returns s[n:] or "" when s is shorter.
func from(s string, n int) string {
	if len(s) <= n {
		return ""
	}
	return s[n:]
}

func replace(s, old, repl string) string {
	if old == "" {
		return s
	}
	return strings.ReplaceAll(s, old, repl)
}
