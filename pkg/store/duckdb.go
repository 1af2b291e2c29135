package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-errors/errors"
	"github.com/google/uuid"
)

var _ Archive = (*DuckDBStore)(nil)

// DuckDBStore implements Archive using DuckDB.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a new DuckDB-backed archive.
// Pass dsn="" for in-memory, or a file path for persistent storage.
func NewDuckDBStore(dsn string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errors.Errorf("open duckdb: %w", err)
	}
	return &DuckDBStore{db: db}, nil
}

// Init creates the sessions and combat_log_entries tables if they do not exist.
func (s *DuckDBStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id VARCHAR PRIMARY KEY,
			zone VARCHAR,
			locale VARCHAR,
			started_at TIMESTAMP,
			ended_at TIMESTAMP,
			imported BOOLEAN,
			entry_count INTEGER
		)
	`)
	if err != nil {
		return errors.Errorf("create sessions table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS combat_log_entries (
			session_id VARCHAR,
			id BIGINT,
			no BIGINT,
			timestamp TIMESTAMP,
			elapsed_ns BIGINT,
			log_type VARCHAR,
			actor VARCHAR,
			activity VARCHAR,
			skill VARCHAR,
			text VARCHAR,
			sync_keyword VARCHAR,
			hp_rate DOUBLE,
			zone VARCHAR,
			is_origin BOOLEAN,
			raw VARCHAR
		)
	`)
	if err != nil {
		return errors.Errorf("create combat_log_entries table: %w", err)
	}
	return nil
}

// SaveSession stores the session row and all entries in a single transaction.
func (s *DuckDBStore) SaveSession(ctx context.Context, session Session, entries []*Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (session_id, zone, locale, started_at, ended_at, imported, entry_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID.String(), session.Zone, session.Locale,
		session.StartedAt, session.EndedAt, session.Imported, len(entries),
	)
	if err != nil {
		return errors.Errorf("insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO combat_log_entries (session_id, id, no, timestamp, elapsed_ns, log_type, actor,
		 activity, skill, text, sync_keyword, hp_rate, zone, is_origin, raw)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		_, err = stmt.ExecContext(ctx,
			session.ID.String(), e.ID, e.No, e.Timestamp, int64(e.Elapsed), e.LogType.String(), e.Actor,
			e.Activity, e.Skill, e.Text, e.SyncKeyword, e.HPRate, e.Zone, e.IsOrigin, e.Raw,
		)
		if err != nil {
			return errors.Errorf("exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Errorf("commit: %w", err)
	}
	return nil
}

// Sessions returns all archived sessions, newest first.
func (s *DuckDBStore) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, zone, locale, started_at, ended_at, imported, entry_count
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, errors.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var ss Session
		var id string
		if err := rows.Scan(&id, &ss.Zone, &ss.Locale, &ss.StartedAt, &ss.EndedAt, &ss.Imported, &ss.EntryCount); err != nil {
			return nil, errors.Errorf("scan session: %w", err)
		}
		ss.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Errorf("parse session id %q: %w", id, err)
		}
		sessions = append(sessions, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("rows err: %w", err)
	}
	return sessions, nil
}

// QueryEntries returns archived entries matching the given options.
func (s *DuckDBStore) QueryEntries(ctx context.Context, opts QueryOpts) ([]Entry, error) {
	var conditions []string
	var args []any

	if opts.SessionID != uuid.Nil {
		conditions = append(conditions, "session_id = ?")
		args = append(args, opts.SessionID.String())
	}
	if opts.LogType != "" {
		conditions = append(conditions, "log_type = ?")
		args = append(args, opts.LogType)
	}
	if opts.Actor != "" {
		conditions = append(conditions, "actor = ?")
		args = append(args, opts.Actor)
	}
	if !opts.From.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, opts.From)
	}
	if !opts.To.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, opts.To)
	}

	query := `SELECT id, no, timestamp, elapsed_ns, log_type, actor, activity, skill, text,
		sync_keyword, hp_rate, zone, is_origin, raw FROM combat_log_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Close closes the underlying database connection.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts time.Time
		var elapsed int64
		var logType string
		if err := rows.Scan(&e.ID, &e.No, &ts, &elapsed, &logType, &e.Actor, &e.Activity, &e.Skill,
			&e.Text, &e.SyncKeyword, &e.HPRate, &e.Zone, &e.IsOrigin, &e.Raw); err != nil {
			return nil, errors.Errorf("scan entry: %w", err)
		}
		e.Timestamp = ts
		e.Elapsed = time.Duration(elapsed)
		e.LogType, _ = ParseLogType(logType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("rows err: %w", err)
	}
	return entries, nil
}
