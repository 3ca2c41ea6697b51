package config

import (
	"fmt"
	"net/url"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	ex := cfg.Extract
	for name, sel := range map[string]string{
		"comment_selector":   ex.CommentSelector,
		"timestamp_selector": ex.TimestampSelector,
		"timestamp_xpath":    ex.TimestampXPath,
		"text_selector":      ex.TextSelector,
		"reaction_selector":  ex.ReactionSelector,
	} {
		if sel == "" {
			return fmt.Errorf("extract.%s must not be empty", name)
		}
	}
	if ex.LabelAttribute == "" {
		return fmt.Errorf("extract.label_attribute must not be empty")
	}
	if err := ValidateBaseURL(ex.BaseURL); err != nil {
		return fmt.Errorf("extract.base_url: %w", err)
	}
	if ex.MaxParentDepth < 0 {
		return fmt.Errorf("extract.max_parent_depth must be >= 0, got %d", ex.MaxParentDepth)
	}

	if cfg.Snapshot.MaxBytes <= 0 {
		return fmt.Errorf("snapshot.max_bytes must be > 0")
	}
	if cfg.Snapshot.Timeout <= 0 {
		return fmt.Errorf("snapshot.timeout must be > 0")
	}

	for _, t := range cfg.Pipeline.Types {
		if _, err := types.ParseCommentType(t); err != nil {
			return fmt.Errorf("pipeline.types: %w", err)
		}
	}
	if cfg.Pipeline.MinReactions < 0 {
		return fmt.Errorf("pipeline.min_reactions must be >= 0, got %d", cfg.Pipeline.MinReactions)
	}

	validStorageTypes := map[string]bool{
		"json": true, "jsonl": true, "csv": true, "markdown": true, "mongodb": true, "sqlite": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, csv, markdown, mongodb, sqlite)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongodb" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri is required for mongodb storage")
	}
	if cfg.Storage.Type == "sqlite" && cfg.Storage.SQLitePath == "" {
		return fmt.Errorf("storage.sqlite_path is required for sqlite storage")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", cfg.Concurrency)
	}

	return nil
}

// ValidateBaseURL checks that a base origin is an absolute http(s) URL.
func ValidateBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
