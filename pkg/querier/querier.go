// Package querier reads archived combat sessions back out of a store.Archive.
package querier

import (
	"context"
	"sort"
	"strings"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/strrl/combatlog/pkg/store"
)

var (
	// ErrNoSessions is returned when the archive is empty.
	ErrNoSessions = errors.New("no archived sessions")
	// ErrSessionNotFound is returned when no session matches an ID or prefix.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAmbiguousSession is returned when a prefix matches several sessions.
	ErrAmbiguousSession = errors.New("ambiguous session prefix")
)

// Querier provides a high-level interface over an archive.
type Querier struct {
	archive store.Archive
}

// NewQuerier creates a new Querier backed by the given archive.
func NewQuerier(a store.Archive) *Querier {
	return &Querier{archive: a}
}

// Sessions returns all archived sessions, newest first.
func (q *Querier) Sessions(ctx context.Context) ([]store.Session, error) {
	return q.archive.Sessions(ctx)
}

// Latest returns the most recently started session.
func (q *Querier) Latest(ctx context.Context) (store.Session, error) {
	sessions, err := q.archive.Sessions(ctx)
	if err != nil {
		return store.Session{}, err
	}
	if len(sessions) == 0 {
		return store.Session{}, ErrNoSessions
	}
	return sessions[0], nil
}

// Resolve finds a session by full ID or unique ID prefix. "latest" and ""
// resolve to the newest session.
func (q *Querier) Resolve(ctx context.Context, ref string) (store.Session, error) {
	if ref == "" || ref == "latest" {
		return q.Latest(ctx)
	}
	sessions, err := q.archive.Sessions(ctx)
	if err != nil {
		return store.Session{}, err
	}
	var found []store.Session
	for _, s := range sessions {
		if strings.HasPrefix(s.ID.String(), strings.ToLower(ref)) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return store.Session{}, errors.Errorf("%s: %w", ref, ErrSessionNotFound)
	case 1:
		return found[0], nil
	default:
		return store.Session{}, errors.Errorf("%s matches %d sessions: %w", ref, len(found), ErrAmbiguousSession)
	}
}

// BySession returns every entry of a session in store order, ready for the
// exporters.
func (q *Querier) BySession(ctx context.Context, id uuid.UUID) ([]*store.Entry, error) {
	entries, err := q.archive.QueryEntries(ctx, store.QueryOpts{SessionID: id})
	if err != nil {
		return nil, err
	}
	out := make([]*store.Entry, len(entries))
	for i := range entries {
		out[i] = &entries[i]
	}
	return out, nil
}

// Search returns entries matching the given query options.
func (q *Querier) Search(ctx context.Context, opts store.QueryOpts) ([]store.Entry, error) {
	return q.archive.QueryEntries(ctx, opts)
}

// ActorCount is the number of entries recorded for one actor.
type ActorCount struct {
	Actor string
	Count int
}

// Actors summarizes a session by actor, most active first. Entries without
// an actor are not counted.
func (q *Querier) Actors(ctx context.Context, id uuid.UUID) ([]ActorCount, error) {
	entries, err := q.archive.QueryEntries(ctx, store.QueryOpts{SessionID: id})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range entries {
		if e.Actor != "" {
			counts[e.Actor]++
		}
	}
	out := make([]ActorCount, 0, len(counts))
	for a, n := range counts {
		out = append(out, ActorCount{Actor: a, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Actor < out[j].Actor
	})
	return out, nil
}
