package provider

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks ragbot/internal/provider Provider

import (
	"context"
	"net/http"
	"time"
)

// Kind identifies a supported provider. The set is closed: every variant is
// resolved at construction time by New, never by reflection at call time.
type Kind string

const (
	KindOpenAI     Kind = "openai"
	KindAnthropic  Kind = "anthropic"
	KindGemini     Kind = "gemini"
	KindOpenRouter Kind = "openrouter"
	KindLocal      Kind = "local"
)

// GenerationParams holds sampling parameters for a generation request.
// Zero values mean "let the provider default apply", except MaxTokens which
// callers are expected to resolve before dispatch.
type GenerationParams struct {
	Temperature      float32
	MaxTokens        int
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// Provider is the uniform capability interface over LLM and embedding vendors.
type Provider interface {
	// Kind returns the provider variant.
	Kind() Kind
	// ValidateKey checks that the credential is accepted by the provider.
	ValidateKey(ctx context.Context, key string) error
	// Models lists the model IDs available to the credential.
	Models(ctx context.Context, key string) ([]string, error)
	// Embed generates one embedding vector per input text.
	Embed(ctx context.Context, key, model string, texts []string) ([][]float32, error)
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, key, model, prompt string, params GenerationParams) (string, error)
	// ModelMaxTokens reports the model's maximum output token budget.
	ModelMaxTokens(ctx context.Context, key, model string) (int, error)
}

// Options configures provider construction.
type Options struct {
	// BaseURL overrides the vendor default endpoint. Required for KindLocal.
	BaseURL string
	// HTTPClient overrides the default client. Timeouts are owned here.
	HTTPClient *http.Client
}

const defaultTimeout = 60 * time.Second

// New resolves a Kind to its concrete variant.
// Unknown kinds fail with a ConfigurationError rather than falling through.
func New(kind Kind, opts Options) (Provider, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	switch kind {
	case KindOpenAI:
		return newOpenAICompatible(kind, baseURLOr(opts.BaseURL, "https://api.openai.com"), client), nil
	case KindOpenRouter:
		return newOpenAICompatible(kind, baseURLOr(opts.BaseURL, "https://openrouter.ai/api"), client), nil
	case KindLocal:
		if opts.BaseURL == "" {
			return nil, &ConfigurationError{Provider: string(kind), Reason: "local provider requires a base URL"}
		}
		return newOpenAICompatible(kind, opts.BaseURL, client), nil
	case KindAnthropic:
		return newAnthropic(baseURLOr(opts.BaseURL, "https://api.anthropic.com"), client), nil
	case KindGemini:
		return newGemini(baseURLOr(opts.BaseURL, "https://generativelanguage.googleapis.com"), client), nil
	default:
		return nil, &ConfigurationError{Provider: string(kind), Reason: "unsupported provider"}
	}
}

func baseURLOr(url, fallback string) string {
	if url != "" {
		return url
	}
	return fallback
}
