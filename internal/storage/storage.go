package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists the records of one extraction pass.
	Store(pass *types.Pass) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the backend selected by cfg.Type.
func New(cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "json", "jsonl", "csv", "markdown":
		return NewFileStorage(cfg.Type, cfg.OutputPath, logger)
	case "mongodb":
		return NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// Buffered reports whether the backend keeps every record in memory until
// Close. Such backends cannot serve a long-running server.
func Buffered(storageType string) bool {
	return storageType == "json" || storageType == "markdown"
}

// StdoutPath is the output path that writes to standard output.
const StdoutPath = "-"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, creating parent directories.
// "-" and "" select standard output, which is never closed.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == StdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

func displayPath(path string) string {
	if path == "" || path == StdoutPath {
		return "stdout"
	}
	return path
}
