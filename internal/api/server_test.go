package api

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/engine"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const page = `<div id="feed">
	<div role="article" aria-label="Comment by Alice 2h">
		<a href="/p?comment_id=1">2h</a><div dir="auto">hello</div>
	</div>
	<div role="article" aria-label="Reply by Bob to Alice's comment 1h">
		<a href="/p?reply_comment_id=2">1h</a><div dir="auto">hi</div>
	</div>
</div>`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	eng, err := engine.New(cfg, testLogger)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewServer(cfg, eng, testLogger)
}

func post(t *testing.T, s *Server, body []byte, encoding string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/extract?source=test", bytes.NewReader(body))
	req.Header.Set("Content-Type", "text/html")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeRecords(t *testing.T, rec *httptest.ResponseRecorder) []types.CommentRecord {
	t.Helper()
	var out []types.CommentRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestExtractEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(t, s, []byte(page), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	records := decodeRecords(t, rec)
	if len(records) != 2 || records[1].Parent() != "1" {
		t.Errorf("unexpected records: %+v", records)
	}
	if rec.Header().Get("X-Run-ID") == "" {
		t.Error("missing X-Run-ID header")
	}
	if got := rec.Header().Get("X-Comments-Found"); got != "2" {
		t.Errorf("X-Comments-Found = %q", got)
	}
}

func TestExtractEndpointCompressed(t *testing.T) {
	s := newTestServer(t, nil)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(page))
	zw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	bw.Write([]byte(page))
	bw.Close()

	for enc, body := range map[string][]byte{"gzip": gz.Bytes(), "br": br.Bytes()} {
		rec := post(t, s, body, enc)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, body = %s", enc, rec.Code, rec.Body.String())
			continue
		}
		if n := len(decodeRecords(t, rec)); n != 2 {
			t.Errorf("%s: expected 2 records, got %d", enc, n)
		}
	}
}

func TestExtractEndpointNoComments(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(t, s, []byte(`<p>nothing here</p>`), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestExtractEndpointErrors(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxBodyBytes = 64
	})

	tests := []struct {
		name     string
		body     []byte
		encoding string
		want     int
	}{
		{"empty body", []byte("  "), "", http.StatusBadRequest},
		{"too large", []byte(page), "", http.StatusRequestEntityTooLarge},
		{"unknown encoding", []byte("<p>x</p>"), "compress", http.StatusUnsupportedMediaType},
		{"corrupt gzip", []byte("not gzip"), "gzip", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.body, tt.encoding)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	post(t, s, []byte(page), "")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "commentgoat_passes_total 1") {
		t.Errorf("metrics missing pass count: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	var stats map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["records_extracted"] != 2 {
		t.Errorf("records_extracted = %d", stats["records_extracted"])
	}
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Metrics.Enabled = false
	})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestExtractEndpointDedupPerRequest(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Pipeline.Dedup = true
	})

	for i := 1; i <= 2; i++ {
		rec := post(t, s, []byte(page), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
		if n := len(decodeRecords(t, rec)); n != 2 {
			t.Errorf("request %d: expected 2 records, got %d", i, n)
		}
	}
}

func TestExtractEndpointKeepsMarkupLiteral(t *testing.T) {
	s := newTestServer(t, nil)
	body := `<div role="article" aria-label="Comment by Alice 2h">
		<a href="/p?comment_id=1">2h</a><div dir="auto">x &lt;b&gt; &amp; y</div>
	</div>`
	rec := post(t, s, []byte(body), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"x <b> & y"`) {
		t.Errorf("markup escaped in response: %s", rec.Body.String())
	}
}
