package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/quizrunner/internal/llm"
)

var explainProviders = []string{
	llm.ProviderAuto, llm.ProviderOff, llm.ProviderAnthropic, llm.ProviderOpenAI,
	llm.ProviderGemini, llm.ProviderOpenRouter, llm.ProviderMock,
}

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	if strings.TrimSpace(cfg.BaseDir) == "" {
		collector.add("base_dir", "is required")
	}
	for i, ext := range cfg.ImageExtensions {
		if ext == "" || ext == "." || strings.ContainsAny(ext, `/\`) {
			collector.add(fmt.Sprintf("image_extensions[%d]", i), fmt.Sprintf("invalid extension %q", ext))
		}
	}
	switch cfg.UI {
	case UIAuto, UITUI, UIPlain:
	default:
		collector.add("ui", fmt.Sprintf("must be one of auto, tui, plain (got %q)", cfg.UI))
	}
	if !slices.Contains(explainProviders, cfg.Explain.Provider) {
		collector.add("explain.provider", fmt.Sprintf("unknown provider %q", cfg.Explain.Provider))
	}

	return collector.result()
}
