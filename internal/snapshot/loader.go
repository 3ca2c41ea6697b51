// Package snapshot provides access to the documents an extraction pass
// runs over: saved pages on disk or stdin, and the live DOM of a tab in a
// browser the user already has open.
package snapshot

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// StdinSource is the path that selects standard input.
const StdinSource = "-"

// Loader reads saved snapshots.
type Loader struct {
	maxBytes int64
	stdin    io.Reader
	logger   *slog.Logger
}

// NewLoader creates a Loader enforcing the size limit from cfg.
func NewLoader(cfg config.SnapshotConfig, logger *slog.Logger) *Loader {
	return &Loader{
		maxBytes: cfg.MaxBytes,
		stdin:    os.Stdin,
		logger:   logger.With("component", "snapshot_loader"),
	}
}

// LoadFile reads the snapshot at path. Files ending in .gz or .br are
// decompressed; "-" reads standard input.
func (l *Loader) LoadFile(path string) (*types.Snapshot, error) {
	if path == StdinSource {
		return l.Read("stdin", "", l.stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &types.SnapshotError{Source: path, Err: err}
	}
	defer f.Close()

	return l.Read(path, EncodingForPath(path), f)
}

// Read decodes r according to encoding and reads the snapshot body from it.
// The size limit applies to the decoded body.
func (l *Loader) Read(source, encoding string, r io.Reader) (*types.Snapshot, error) {
	decoded, err := Decode(encoding, r)
	if err != nil {
		return nil, &types.SnapshotError{Source: source, Err: err}
	}
	defer decoded.Close()

	body, err := readLimited(decoded, l.maxBytes)
	if err != nil {
		return nil, &types.SnapshotError{Source: source, Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &types.SnapshotError{Source: source, Err: types.ErrEmptySnapshot}
	}

	l.logger.Debug("snapshot loaded", "source", source, "encoding", encoding, "size", len(body))
	return types.NewSnapshot(source, body), nil
}

// EncodingForPath infers a content encoding from a file extension.
func EncodingForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return "gzip"
	case ".br":
		return "br"
	default:
		return ""
	}
}

// Decode wraps r with the decompressor for encoding. Handles gzip, deflate,
// and brotli (br); the empty string and "identity" pass r through. Closing
// the result releases the decompressor, not r.
func Decode(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip", "x-gzip":
		return gzip.NewReader(r)
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownEncoding, encoding)
	}
}

// readLimited reads all of r, failing once more than max bytes arrive.
// A max of zero or less disables the limit.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, fmt.Errorf("%w (%d bytes)", types.ErrSnapshotTooLarge, max)
	}
	return body, nil
}
