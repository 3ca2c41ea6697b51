package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/IshaanNene/CommentGoat/internal/thread"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// --- JSON Storage ---

// JSONStorage writes every record of the run as one pretty-printed JSON
// array. Records are buffered until Close; an empty run writes [].
type JSONStorage struct {
	path    string
	records []types.CommentRecord
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewJSONStorage creates a new JSON storage writing to outputPath.
func NewJSONStorage(outputPath string, logger *slog.Logger) (*JSONStorage, error) {
	return &JSONStorage{
		path:    outputPath,
		records: make([]types.CommentRecord, 0),
		logger:  logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(pass *types.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, pass.Records...)
	s.logger.Debug("records buffered", "source", pass.Source, "count", len(pass.Records), "total", len(s.records))
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := openOutput(s.path)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	defer w.Close()

	if err := writeJSON(w, s.records); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("JSON written", "path", displayPath(s.path), "records", len(s.records))
	return nil
}

// writeJSON encodes records as an indented JSON array.
func writeJSON(w io.Writer, records []types.CommentRecord) error {
	if records == nil {
		records = []types.CommentRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// --- JSONL Storage ---

// JSONLStorage writes records as newline-delimited JSON (one object per line).
type JSONLStorage struct {
	path   string
	out    io.WriteCloser
	enc    *json.Encoder
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLStorage creates a new JSONL storage (streaming writes).
func NewJSONLStorage(outputPath string, logger *slog.Logger) (*JSONLStorage, error) {
	out, err := openOutput(outputPath)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	return &JSONLStorage{
		path:   outputPath,
		out:    out,
		enc:    enc,
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(pass *types.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range pass.Records {
		if err := s.enc.Encode(&pass.Records[i]); err != nil {
			return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("encode JSONL: %w", err)}
		}
		s.count++
	}
	return nil
}

func (s *JSONLStorage) Close() error {
	s.logger.Info("JSONL written", "path", displayPath(s.path), "records", s.count)
	return s.out.Close()
}

// --- CSV Storage ---

// csvHeader is the fixed column order of CSV output.
var csvHeader = []string{
	"id", "parent_id", "text", "timestamp_text", "reaction_count", "comment_type",
	"root_id", "depth", "sibling_count",
}

// CSVStorage writes records as CSV rows, with the thread position of each
// record computed over its own pass.
type CSVStorage struct {
	path   string
	out    io.WriteCloser
	writer *csv.Writer
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewCSVStorage creates a new CSV storage and writes the header row.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	out, err := openOutput(outputPath)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		out.Close()
		return nil, fmt.Errorf("write CSV header: %w", err)
	}

	return &CSVStorage{
		path:   outputPath,
		out:    out,
		writer: w,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(pass *types.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	threads := thread.Annotate(pass.Records)
	for i := range pass.Records {
		rec := &pass.Records[i]
		f := threads.Features[i]
		row := []string{
			rec.ID,
			rec.Parent(),
			rec.Text,
			rec.TimestampText,
			strconv.Itoa(rec.ReactionCount),
			string(rec.CommentType),
			f.RootID,
			strconv.Itoa(f.Depth),
			strconv.Itoa(f.SiblingCount),
		}
		if err := s.writer.Write(row); err != nil {
			return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("write CSV row: %w", err)}
		}
		s.count++
	}

	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVStorage) Close() error {
	s.logger.Info("CSV written", "path", displayPath(s.path), "records", s.count)
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.out.Close()
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	return s.out.Close()
}

// NewFileStorage creates the appropriate file-based storage by type.
func NewFileStorage(storageType, outputPath string, logger *slog.Logger) (Storage, error) {
	switch storageType {
	case "json":
		return NewJSONStorage(outputPath, logger)
	case "jsonl":
		return NewJSONLStorage(outputPath, logger)
	case "csv":
		return NewCSVStorage(outputPath, logger)
	case "markdown":
		return NewMarkdownStorage(outputPath, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
