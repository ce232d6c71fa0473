// Package config loads the optional quizrunner YAML config file.
package config

import (
	"strings"

	"github.com/abhisek/quizrunner/internal/llm"
	"github.com/abhisek/quizrunner/internal/question"
)

// UI modes.
const (
	UIAuto  = "auto"
	UITUI   = "tui"
	UIPlain = "plain"
)

// DefaultBaseDir is where question sets are discovered when nothing else is
// configured.
const DefaultBaseDir = "zestawy"

// Config is the on-disk configuration. Zero values mean "use the default".
type Config struct {
	BaseDir         string        `yaml:"base_dir"`
	ImageExtensions []string      `yaml:"image_extensions"`
	OpenImages      *bool         `yaml:"open_images"`
	IncludeSolved   bool          `yaml:"include_solved"`
	UI              string        `yaml:"ui"`
	History         HistoryConfig `yaml:"history"`
	Explain         ExplainConfig `yaml:"explain"`
}

// HistoryConfig controls the SQLite journal.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ExplainConfig selects the explanation provider.
type ExplainConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// Default returns a normalized config with every default applied.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

// ShouldOpenImages reports whether images are opened automatically.
func (c Config) ShouldOpenImages() bool {
	return c.OpenImages == nil || *c.OpenImages
}

// HistoryEnabled reports whether the journal is written.
func (c Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// Normalize fills defaults and canonicalizes values in place.
func Normalize(cfg *Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultBaseDir
	}
	if len(cfg.ImageExtensions) == 0 {
		cfg.ImageExtensions = append([]string(nil), question.DefaultImageExtensions...)
	}
	for i, ext := range cfg.ImageExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.ImageExtensions[i] = ext
	}
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	if cfg.UI == "" {
		cfg.UI = UIAuto
	}
	cfg.Explain.Provider = strings.ToLower(strings.TrimSpace(cfg.Explain.Provider))
	if cfg.Explain.Provider == "" {
		cfg.Explain.Provider = llm.ProviderOff
	}
}
