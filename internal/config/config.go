package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// AppName is used for the config file name, env prefix and XDG directory.
const AppName = "commentgoat"

// Config is the root configuration for CommentGoat.
type Config struct {
	Extract     ExtractConfig  `mapstructure:"extract"     yaml:"extract"`
	Snapshot    SnapshotConfig `mapstructure:"snapshot"    yaml:"snapshot"`
	Pipeline    PipelineConfig `mapstructure:"pipeline"    yaml:"pipeline"`
	Storage     StorageConfig  `mapstructure:"storage"     yaml:"storage"`
	Server      ServerConfig   `mapstructure:"server"      yaml:"server"`
	Logging     LoggingConfig  `mapstructure:"logging"     yaml:"logging"`
	Metrics     MetricsConfig  `mapstructure:"metrics"     yaml:"metrics"`
	Concurrency int            `mapstructure:"concurrency" yaml:"concurrency"`
}

// ExtractConfig holds the structural patterns and label conventions the
// extractor relies on. These change whenever the site reshuffles its markup.
type ExtractConfig struct {
	CommentSelector   string `mapstructure:"comment_selector"   yaml:"comment_selector"`
	TimestampSelector string `mapstructure:"timestamp_selector" yaml:"timestamp_selector"`
	TimestampXPath    string `mapstructure:"timestamp_xpath"    yaml:"timestamp_xpath"`
	TextSelector      string `mapstructure:"text_selector"      yaml:"text_selector"`
	ReactionSelector  string `mapstructure:"reaction_selector"  yaml:"reaction_selector"`
	LabelAttribute    string `mapstructure:"label_attribute"    yaml:"label_attribute"`
	BaseURL           string `mapstructure:"base_url"           yaml:"base_url"`
	MaxParentDepth    int    `mapstructure:"max_parent_depth"   yaml:"max_parent_depth"` // 0 = unbounded
}

// SnapshotConfig controls how page snapshots are read.
type SnapshotConfig struct {
	MaxBytes   int64         `mapstructure:"max_bytes"   yaml:"max_bytes"`
	BrowserURL string        `mapstructure:"browser_url" yaml:"browser_url"`
	PageMatch  string        `mapstructure:"page_match"  yaml:"page_match"`
	Timeout    time.Duration `mapstructure:"timeout"     yaml:"timeout"`
}

// PipelineConfig controls post-extraction record processing.
type PipelineConfig struct {
	Dedup         bool     `mapstructure:"dedup"          yaml:"dedup"`
	NormalizeText bool     `mapstructure:"normalize_text" yaml:"normalize_text"`
	Types         []string `mapstructure:"types"          yaml:"types"`
	MinReactions  int      `mapstructure:"min_reactions"  yaml:"min_reactions"`
}

// StorageConfig controls output/storage.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"`
	OutputPath      string `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
	SQLitePath      string `mapstructure:"sqlite_path"      yaml:"sqlite_path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port         int   `mapstructure:"port"           yaml:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint on the API server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			CommentSelector:   `div[role="article"]`,
			TimestampSelector: `a[href*="comment_id="]`,
			TimestampXPath:    `.//a[contains(@href, "comment_id=")]`,
			TextSelector:      `div[dir="auto"]`,
			ReactionSelector:  `div[role="button"][aria-label*=" reaction"]`, // note the space before "reaction"
			LabelAttribute:    "aria-label",
			BaseURL:           "https://www.facebook.com",
		},
		Snapshot: SnapshotConfig{
			MaxBytes:   50 * 1024 * 1024, // 50MB
			BrowserURL: "",
			PageMatch:  "facebook.com",
			Timeout:    30 * time.Second,
		},
		Storage: StorageConfig{
			Type:            "json",
			OutputPath:      "-",
			MongoDatabase:   AppName,
			MongoCollection: "comments",
			SQLitePath:      "./output/comments.db",
		},
		Server: ServerConfig{
			Port:         8080,
			MaxBodyBytes: 50 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Concurrency: 4,
	}
}
