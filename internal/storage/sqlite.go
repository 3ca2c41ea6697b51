package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	extracted_at DATETIME NOT NULL,
	comment_id TEXT NOT NULL,
	parent_id TEXT,
	text TEXT NOT NULL,
	timestamp_text TEXT NOT NULL,
	reaction_count INTEGER NOT NULL DEFAULT 0,
	comment_type TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_run ON comments(run_id);
CREATE INDEX IF NOT EXISTS idx_comments_comment ON comments(comment_id);
CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);
`

// SQLiteStorage writes records to a local SQLite database, one row per
// record, tagged with the pass they came from.
type SQLiteStorage struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at path.
func NewSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, &types.StorageError{Backend: "sqlite", Err: fmt.Errorf("create database dir: %w", err)}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, &types.StorageError{Backend: "sqlite", Err: fmt.Errorf("open: %w", err)}
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), sqliteSchema); err != nil {
		_ = db.Close()
		return nil, &types.StorageError{Backend: "sqlite", Err: fmt.Errorf("create tables: %w", err)}
	}

	return &SQLiteStorage{
		db:     db,
		path:   path,
		logger: logger.With("component", "sqlite_storage"),
	}, nil
}

func (s *SQLiteStorage) Name() string { return "sqlite" }

func (s *SQLiteStorage) Store(pass *types.Pass) error {
	if len(pass.Records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.insert(ctx, documentsFor(pass)); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.count += len(pass.Records)
	s.logger.Debug("records stored in sqlite", "run_id", pass.ID, "count", len(pass.Records), "total", s.count)
	return nil
}

func (s *SQLiteStorage) insert(ctx context.Context, docs []commentDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO comments (run_id, source, extracted_at, comment_id, parent_id, text, timestamp_text, reaction_count, comment_type)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		var parent sql.NullString
		if d.ParentID != nil {
			parent = sql.NullString{String: *d.ParentID, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			d.RunID, d.Source, d.ExtractedAt.UTC().Format(time.RFC3339Nano),
			d.CommentID, parent, d.Text, d.TimestampText, d.ReactionCount, d.CommentType,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", d.CommentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	s.logger.Info("sqlite storage closing", "path", s.path, "total_records", s.count)
	return s.db.Close()
}
