package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty comment selector", func(c *Config) { c.Extract.CommentSelector = "" }, "comment_selector"},
		{"relative base url", func(c *Config) { c.Extract.BaseURL = "/posts" }, "base_url"},
		{"negative parent depth", func(c *Config) { c.Extract.MaxParentDepth = -1 }, "max_parent_depth"},
		{"bad storage type", func(c *Config) { c.Storage.Type = "xml" }, "storage.type"},
		{"mongodb without uri", func(c *Config) { c.Storage.Type = "mongodb" }, "mongo_uri"},
		{"bad pipeline type", func(c *Config) { c.Pipeline.Types = []string{"thread"} }, "pipeline.types"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commentgoat.yaml")
	content := `
extract:
  base_url: https://m.facebook.com
  max_parent_depth: 12
storage:
  type: csv
  output_path: ./out
pipeline:
  dedup: true
  types: [reply]
snapshot:
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Extract.BaseURL != "https://m.facebook.com" {
		t.Errorf("base_url = %q", cfg.Extract.BaseURL)
	}
	if cfg.Extract.MaxParentDepth != 12 {
		t.Errorf("max_parent_depth = %d", cfg.Extract.MaxParentDepth)
	}
	if cfg.Storage.Type != "csv" || cfg.Storage.OutputPath != "./out" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if !cfg.Pipeline.Dedup || len(cfg.Pipeline.Types) != 1 || cfg.Pipeline.Types[0] != "reply" {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Snapshot.Timeout.Seconds() != 5 {
		t.Errorf("snapshot.timeout = %s", cfg.Snapshot.Timeout)
	}
	// Untouched keys keep their defaults.
	if cfg.Extract.CommentSelector != DefaultConfig().Extract.CommentSelector {
		t.Errorf("comment_selector = %q", cfg.Extract.CommentSelector)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COMMENTGOAT_STORAGE_TYPE", "jsonl")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Type != "jsonl" {
		t.Errorf("expected env override jsonl, got %q", cfg.Storage.Type)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected file value debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
