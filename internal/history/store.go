// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local SQLite record of fetched pull requests so
// descriptions can be searched and exported without contacting Azure DevOps.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/prdesc/pkg/types"
)

const dbFile = "history.db"

// ErrNotFound is returned by Get for an unknown pull request id.
var ErrNotFound = errors.New("history: pull request not found")

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	logger     *zap.Logger

	// fts is false when the sqlite3 driver was built without FTS5
	// (build tag sqlite_fts5); Search then falls back to LIKE matching.
	fts bool
}

// Open opens or creates the history database at cfg.Dir/history.db and
// creates the schema if it does not exist.
func Open(cfg types.HistoryConfig, logger *zap.Logger) (*Store, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("opened history", zap.String("path", dbPath), zap.Bool("fts5", s.fts))
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pull_requests (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			has_description INTEGER NOT NULL DEFAULT 0,
			is_draft INTEGER NOT NULL DEFAULT 0,
			status TEXT,
			created_by TEXT,
			source_ref TEXT,
			target_ref TEXT,
			creation_date TEXT,
			repository TEXT,
			url TEXT,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pull_requests_created_by ON pull_requests(created_by)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='pull_requests_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE pull_requests_fts USING fts5(title, description, content=pull_requests, content_rowid=id)`,
		`CREATE TRIGGER pull_requests_ai AFTER INSERT ON pull_requests BEGIN
			INSERT INTO pull_requests_fts(rowid, title, description) VALUES (new.id, new.title, new.description);
		END`,
		`CREATE TRIGGER pull_requests_ad AFTER DELETE ON pull_requests BEGIN
			INSERT INTO pull_requests_fts(pull_requests_fts, rowid, title, description) VALUES('delete', old.id, old.title, old.description);
		END`,
		`CREATE TRIGGER pull_requests_au AFTER UPDATE ON pull_requests BEGIN
			INSERT INTO pull_requests_fts(pull_requests_fts, rowid, title, description) VALUES('delete', old.id, old.title, old.description);
			INSERT INTO pull_requests_fts(rowid, title, description) VALUES (new.id, new.title, new.description);
		END`,
	}
	for i, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			if i == 0 && strings.Contains(err.Error(), "no such module: fts5") {
				return nil
			}
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true

	// Index rows saved while FTS5 was unavailable.
	if _, err := s.db.Exec(`INSERT INTO pull_requests_fts(pull_requests_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("rebuilding FTS index: %w", err)
	}
	return nil
}

// SaveSummary holds counts from one Save call.
type SaveSummary struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// Total returns the number of pull requests processed.
func (s SaveSummary) Total() int {
	return s.Inserted + s.Updated + s.Unchanged
}

// Save upserts prs in one transaction. A stored pull request whose title,
// description and draft flag are unchanged only has its fetch time bumped.
func (s *Store) Save(ctx context.Context, prs []types.PullRequest, fetchedAt time.Time) (SaveSummary, error) {
	var summary SaveSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	fetched := fetchedAt.UTC().Format(time.RFC3339Nano)
	for _, pr := range prs {
		var (
			title, description      string
			hasDescription, isDraft bool
		)
		err := tx.QueryRowContext(ctx,
			`SELECT title, description, has_description, is_draft FROM pull_requests WHERE id = ?`, pr.ID,
		).Scan(&title, &description, &hasDescription, &isDraft)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			summary.Inserted++
		case err != nil:
			return summary, fmt.Errorf("looking up pull request %d: %w", pr.ID, err)
		case title == pr.Title && description == pr.Description &&
			hasDescription == pr.HasDescription && isDraft == pr.IsDraft:
			if _, err := tx.ExecContext(ctx,
				`UPDATE pull_requests SET fetched_at = ? WHERE id = ?`, fetched, pr.ID,
			); err != nil {
				return summary, fmt.Errorf("touching pull request %d: %w", pr.ID, err)
			}
			summary.Unchanged++
			continue
		default:
			summary.Updated++
		}

		creation := ""
		if !pr.CreationDate.IsZero() {
			creation = pr.CreationDate.UTC().Format(time.RFC3339)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO pull_requests (id, title, description, has_description, is_draft, status,
				created_by, source_ref, target_ref, creation_date, repository, url, fetched_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				title=excluded.title, description=excluded.description,
				has_description=excluded.has_description, is_draft=excluded.is_draft,
				status=excluded.status, created_by=excluded.created_by,
				source_ref=excluded.source_ref, target_ref=excluded.target_ref,
				creation_date=excluded.creation_date, repository=excluded.repository,
				url=excluded.url, fetched_at=excluded.fetched_at`,
			pr.ID, pr.Title, pr.Description, pr.HasDescription, pr.IsDraft, pr.Status,
			pr.CreatedBy, pr.SourceRef, pr.TargetRef, creation, pr.Repository, pr.URL, fetched,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting pull request %d: %w", pr.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	s.logger.Debug("saved pull requests",
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("unchanged", summary.Unchanged))
	return summary, nil
}
