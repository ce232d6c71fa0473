package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizrunner/internal/store"
)

// NewProvider creates a Provider from cfg, wrapped as
// caller → timeout → retry → logging → base. A nil repo skips the logging layer.
// warn receives journal write failures; nil discards them.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, warn func(error)) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = &MockProvider{Offline: true}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo != nil {
		base = WithLogging(base, cfg.Provider, repo, warn)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
