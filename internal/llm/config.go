package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderAuto       = "auto"
	ProviderOff        = "off"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// keyEnv maps each provider to the API key variable its own tooling uses.
var keyEnv = map[string]string{
	ProviderGemini:     "GEMINI_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
}

// discoveryOrder is the probe order when the provider is "auto".
var discoveryOrder = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderMock:       "mock",
}

// Config selects one provider and how to call it.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only
	Retry    RetryConfig

	// Timeout bounds a single Generate call including retries. Zero means
	// no bound; NewProvider applies it with WithTimeout.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is the retry policy used unless configured otherwise.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// Resolve builds a Config for provider and model, reading the API key from
// the provider's standard environment variable. Explanations are opt-in: an
// empty provider means off. With "auto" the first provider whose key is set
// wins. It returns false when explanations are off or no key is available.
func Resolve(provider, model string) (Config, bool, error) {
	switch provider {
	case "", ProviderOff:
		return Config{}, false, nil
	case ProviderAuto:
		for _, p := range discoveryOrder {
			if os.Getenv(keyEnv[p]) != "" {
				return Resolve(p, model)
			}
		}
		return Config{}, false, nil
	case ProviderMock:
		return newConfig(provider, model, ""), true, nil
	}

	env, ok := keyEnv[provider]
	if !ok {
		return Config{}, false, fmt.Errorf("unknown LLM provider: %q", provider)
	}
	key := os.Getenv(env)
	if key == "" {
		return Config{}, false, nil
	}
	return newConfig(provider, model, key), true, nil
}

func newConfig(provider, model, key string) Config {
	if model == "" {
		model = defaultModels[provider]
	}
	return Config{
		Provider: provider,
		Model:    model,
		APIKey:   key,
		Retry:    DefaultRetry(),
		Timeout:  30 * time.Second,
	}
}

// Validate checks that the selected provider can be constructed.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("%s is required for the %s provider", keyEnv[c.Provider], c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
