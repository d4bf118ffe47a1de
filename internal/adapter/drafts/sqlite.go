package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"social-studio/internal/domain"
)

// SQLiteDraftStore persists approved drafts in a local SQLite file.
type SQLiteDraftStore struct {
	db *sql.DB
}

// NewSQLiteDraftStore opens (or creates) a SQLite database at dbPath and
// runs the schema migration.
func NewSQLiteDraftStore(dbPath string) (*SQLiteDraftStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open drafts db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate drafts db: %w", err)
	}
	return &SQLiteDraftStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			id             TEXT PRIMARY KEY,
			thread_id      TEXT NOT NULL DEFAULT '',
			variant        TEXT NOT NULL DEFAULT '',
			platform       TEXT NOT NULL,
			language       TEXT NOT NULL DEFAULT '',
			body           TEXT NOT NULL,
			hashtags       TEXT NOT NULL DEFAULT '[]',
			call_to_action TEXT NOT NULL DEFAULT '',
			posting_time   TEXT NOT NULL DEFAULT '',
			approved_at    TEXT NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteDraftStore) Close() error {
	return s.db.Close()
}

// Save inserts one approved draft. A zero ApprovedAt is stamped with the
// current time.
func (s *SQLiteDraftStore) Save(_ context.Context, d domain.Draft) error {
	tagsJSON, err := json.Marshal(d.Hashtags)
	if err != nil {
		return fmt.Errorf("marshal draft hashtags: %w", err)
	}
	if d.ApprovedAt.IsZero() {
		d.ApprovedAt = time.Now().UTC()
	}
	_, err = s.db.Exec(
		"INSERT INTO drafts (id, thread_id, variant, platform, language, body, hashtags, call_to_action, posting_time, approved_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.ThreadID, d.Variant, d.Platform, d.Language, d.Body,
		string(tagsJSON), d.CallToAction, d.PostingTime,
		d.ApprovedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Get fetches one draft by id.
func (s *SQLiteDraftStore) Get(_ context.Context, id string) (domain.Draft, error) {
	row := s.db.QueryRow(
		"SELECT id, thread_id, variant, platform, language, body, hashtags, call_to_action, posting_time, approved_at FROM drafts WHERE id = ?", id,
	)
	d, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Draft{}, domain.NewSubSystemError("draft", "Drafts.Get", domain.ErrNotFound, id)
		}
		return domain.Draft{}, err
	}
	return d, nil
}

// List returns all saved drafts, newest first.
func (s *SQLiteDraftStore) List(_ context.Context) ([]domain.Draft, error) {
	rows, err := s.db.Query(
		"SELECT id, thread_id, variant, platform, language, body, hashtags, call_to_action, posting_time, approved_at FROM drafts ORDER BY approved_at DESC, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes one draft by id.
func (s *SQLiteDraftStore) Delete(_ context.Context, id string) error {
	res, err := s.db.Exec("DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NewSubSystemError("draft", "Drafts.Delete", domain.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (domain.Draft, error) {
	var d domain.Draft
	var tagsStr, approvedStr string
	if err := s.Scan(&d.ID, &d.ThreadID, &d.Variant, &d.Platform, &d.Language, &d.Body, &tagsStr, &d.CallToAction, &d.PostingTime, &approvedStr); err != nil {
		return domain.Draft{}, err
	}
	if err := json.Unmarshal([]byte(tagsStr), &d.Hashtags); err != nil {
		return domain.Draft{}, fmt.Errorf("unmarshal draft hashtags: %w", err)
	}
	d.ApprovedAt, _ = time.Parse(time.RFC3339Nano, approvedStr)
	return d, nil
}
