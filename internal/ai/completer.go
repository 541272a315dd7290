// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/northbound/studynotes/internal/config"
)

// ErrGeneration wraps every failure returned by a hosted model
var ErrGeneration = errors.New("generation failed")

// Provider defaults
const (
	GroqBaseURL        = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// Completer sends one fully rendered prompt to a model and returns its completion text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewCompleter creates a completer based on the provider named in cfg.
// Supported providers: "groq", "openai", "ollama", "gemini", "mock" (for testing)
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "", "groq":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return newOpenAICompatible("groq", cfg.APIKey, orDefault(cfg.Model, DefaultGroqModel), baseURL, httpClient)
	case "openai":
		return newOpenAICompatible("openai", cfg.APIKey, orDefault(cfg.Model, DefaultOpenAIModel), cfg.BaseURL, httpClient)
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(orDefault(cfg.BaseURL, DefaultOllamaURL)),
			ollama.WithModel(orDefault(cfg.Model, DefaultOllamaModel)),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return NewLLMCompleter("ollama", llm), nil
	case "gemini":
		return NewGeminiCompleter(ctx, cfg.APIKey, orDefault(cfg.Model, DefaultGeminiModel))
	case "mock":
		return NewMockCompleter(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

func newOpenAICompatible(name, apiKey, model, baseURL string, httpClient *http.Client) (Completer, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", name, err)
	}
	return NewLLMCompleter(name, llm), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Unavailable returns a completer that fails every call with cause.
// It stands in for a client that could not be constructed so the UI stays usable.
func Unavailable(cause error) Completer {
	return unavailable{cause: cause}
}

type unavailable struct {
	cause error
}

func (u unavailable) Complete(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %w", ErrGeneration, u.cause)
}
