package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("extract.comment_selector", cfg.Extract.CommentSelector)
	v.SetDefault("extract.timestamp_selector", cfg.Extract.TimestampSelector)
	v.SetDefault("extract.timestamp_xpath", cfg.Extract.TimestampXPath)
	v.SetDefault("extract.text_selector", cfg.Extract.TextSelector)
	v.SetDefault("extract.reaction_selector", cfg.Extract.ReactionSelector)
	v.SetDefault("extract.label_attribute", cfg.Extract.LabelAttribute)
	v.SetDefault("extract.base_url", cfg.Extract.BaseURL)
	v.SetDefault("extract.max_parent_depth", cfg.Extract.MaxParentDepth)

	v.SetDefault("snapshot.max_bytes", cfg.Snapshot.MaxBytes)
	v.SetDefault("snapshot.browser_url", cfg.Snapshot.BrowserURL)
	v.SetDefault("snapshot.page_match", cfg.Snapshot.PageMatch)
	v.SetDefault("snapshot.timeout", cfg.Snapshot.Timeout)

	v.SetDefault("pipeline.dedup", cfg.Pipeline.Dedup)
	v.SetDefault("pipeline.normalize_text", cfg.Pipeline.NormalizeText)
	v.SetDefault("pipeline.types", cfg.Pipeline.Types)
	v.SetDefault("pipeline.min_reactions", cfg.Pipeline.MinReactions)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)
	v.SetDefault("storage.mongo_collection", cfg.Storage.MongoCollection)
	v.SetDefault("storage.sqlite_path", cfg.Storage.SQLitePath)

	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)

	v.SetDefault("concurrency", cfg.Concurrency)
}
