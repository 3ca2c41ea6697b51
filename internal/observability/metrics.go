package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/IshaanNene/CommentGoat/internal/extract"
)

// Metrics tracks extraction counters across passes.
type Metrics struct {
	// Pass metrics
	PassesTotal   atomic.Int64
	PassesFailed  atomic.Int64
	SnapshotBytes atomic.Int64

	// Container metrics
	ContainersFound  atomic.Int64
	RecordsExtracted atomic.Int64
	SkippedNoText    atomic.Int64
	MissingIDs       atomic.Int64
	UnknownType      atomic.Int64

	// Parent resolution metrics
	Replies          atomic.Int64
	ParentsByAuthor  atomic.Int64
	ParentsByNearest atomic.Int64
	ParentsMissing   atomic.Int64

	// Output metrics
	RecordsDropped atomic.Int64
	RecordsStored  atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// RecordPass adds the counters of one finished pass.
func (m *Metrics) RecordPass(s extract.Stats) {
	m.PassesTotal.Add(1)
	m.ContainersFound.Add(int64(s.Found))
	m.RecordsExtracted.Add(int64(s.Extracted))
	m.SkippedNoText.Add(int64(s.SkippedNoText))
	m.MissingIDs.Add(int64(s.MissingID))
	m.UnknownType.Add(int64(s.UnknownType))
	m.Replies.Add(int64(s.Replies))
	m.ParentsByAuthor.Add(int64(s.ParentsByAuthor))
	m.ParentsByNearest.Add(int64(s.ParentsByNearest))
	m.ParentsMissing.Add(int64(s.ParentsMissing))
}

type metric struct {
	name  string
	help  string
	value int64
}

func (m *Metrics) all() []metric {
	return []metric{
		{"commentgoat_passes_total", "Total extraction passes run", m.PassesTotal.Load()},
		{"commentgoat_passes_failed_total", "Total passes that failed before extraction", m.PassesFailed.Load()},
		{"commentgoat_snapshot_bytes_total", "Total snapshot bytes read", m.SnapshotBytes.Load()},
		{"commentgoat_containers_found_total", "Total comment containers found", m.ContainersFound.Load()},
		{"commentgoat_records_extracted_total", "Total records extracted", m.RecordsExtracted.Load()},
		{"commentgoat_skipped_no_text_total", "Total containers skipped for lack of text", m.SkippedNoText.Load()},
		{"commentgoat_missing_ids_total", "Total records given a placeholder id", m.MissingIDs.Load()},
		{"commentgoat_unknown_type_total", "Total records of unknown type", m.UnknownType.Load()},
		{"commentgoat_replies_total", "Total reply records", m.Replies.Load()},
		{"commentgoat_parents_by_author_total", "Total replies whose parent matched by author", m.ParentsByAuthor.Load()},
		{"commentgoat_parents_by_nearest_total", "Total replies given the nearest candidate as parent", m.ParentsByNearest.Load()},
		{"commentgoat_parents_missing_total", "Total replies without a parent", m.ParentsMissing.Load()},
		{"commentgoat_records_dropped_total", "Total records dropped by the pipeline", m.RecordsDropped.Load()},
		{"commentgoat_records_stored_total", "Total records handed to storage", m.RecordsStored.Load()},
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	for _, metric := range m.all() {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all metrics as a map keyed by short name.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"passes_total":       m.PassesTotal.Load(),
		"passes_failed":      m.PassesFailed.Load(),
		"snapshot_bytes":     m.SnapshotBytes.Load(),
		"containers_found":   m.ContainersFound.Load(),
		"records_extracted":  m.RecordsExtracted.Load(),
		"skipped_no_text":    m.SkippedNoText.Load(),
		"missing_ids":        m.MissingIDs.Load(),
		"unknown_type":       m.UnknownType.Load(),
		"replies":            m.Replies.Load(),
		"parents_by_author":  m.ParentsByAuthor.Load(),
		"parents_by_nearest": m.ParentsByNearest.Load(),
		"parents_missing":    m.ParentsMissing.Load(),
		"records_dropped":    m.RecordsDropped.Load(),
		"records_stored":     m.RecordsStored.Load(),
	}
}

// LogSummary writes the run totals at info level.
func (m *Metrics) LogSummary() {
	m.logger.Info("run summary",
		"passes", m.PassesTotal.Load(),
		"failed", m.PassesFailed.Load(),
		"found", m.ContainersFound.Load(),
		"extracted", m.RecordsExtracted.Load(),
		"dropped", m.RecordsDropped.Load(),
		"stored", m.RecordsStored.Load(),
		"parents_missing", m.ParentsMissing.Load(),
	)
}
