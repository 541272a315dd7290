// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/northbound/studynotes/internal/config"
)

// fakeModel records prompts and replays a canned completion or error.
type fakeModel struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompts = append(f.prompts, text.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLLMCompleter_Complete(t *testing.T) {
	model := &fakeModel{reply: "- point one"}
	c := NewLLMCompleter("fake", model)

	out, err := c.Complete(context.Background(), "make notes")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "- point one" {
		t.Errorf("Expected canned reply, got %q", out)
	}
	if len(model.prompts) != 1 || model.prompts[0] != "make notes" {
		t.Errorf("Expected exactly one call with the prompt, got %v", model.prompts)
	}
}

func TestLLMCompleter_ErrorIsWrapped(t *testing.T) {
	upstream := errors.New("429 rate limited")
	c := NewLLMCompleter("fake", &fakeModel{err: upstream})

	_, err := c.Complete(context.Background(), "make notes")
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("Expected ErrGeneration, got %v", err)
	}
	if !errors.Is(err, upstream) {
		t.Errorf("Expected upstream error to be preserved, got %v", err)
	}
}

func TestNewCompleter_OpenAICompatibleEndpoint(t *testing.T) {
	var gotPath, gotAuth, gotModel string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"` + body.Model + `",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":"## Notes"},"finish_reason":"stop"}],` +
			`"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	c, err := NewCompleter(context.Background(), config.LLMConfig{
		Provider: "groq",
		APIKey:   "gsk-test",
		BaseURL:  srv.URL + "/openai/v1",
	})
	if err != nil {
		t.Fatalf("NewCompleter failed: %v", err)
	}

	out, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "## Notes" {
		t.Errorf("Expected completion text, got %q", out)
	}
	if gotPath != "/openai/v1/chat/completions" {
		t.Errorf("Unexpected request path %q", gotPath)
	}
	if gotAuth != "Bearer gsk-test" {
		t.Errorf("Unexpected Authorization header %q", gotAuth)
	}
	if gotModel != DefaultGroqModel {
		t.Errorf("Expected default model %s, got %s", DefaultGroqModel, gotModel)
	}
}

func TestNewCompleter_UpstreamErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "openai", APIKey: "bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewCompleter failed: %v", err)
	}

	if _, err := c.Complete(context.Background(), "hello"); !errors.Is(err, ErrGeneration) {
		t.Errorf("Expected ErrGeneration, got %v", err)
	}
}

func TestNewCompleter_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "groq"}); err == nil {
		t.Error("Expected construction to fail without an API key")
	}
	if _, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "gemini"}); err == nil {
		t.Error("Expected gemini construction to fail without an API key")
	}
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "eliza"})
	if err == nil || !strings.Contains(err.Error(), "eliza") {
		t.Errorf("Expected unknown provider error, got %v", err)
	}
}

func TestMockCompleter_Deterministic(t *testing.T) {
	c, err := NewCompleter(context.Background(), config.LLMConfig{Provider: "mock"})
	if err != nil {
		t.Fatalf("NewCompleter failed: %v", err)
	}

	a, err := c.Complete(context.Background(), "Based on the following text\nbody")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	b, _ := c.Complete(context.Background(), "Based on the following text\nbody")
	if a != b || a == "" {
		t.Errorf("Expected identical non-empty responses, got %q and %q", a, b)
	}
	if !strings.Contains(a, "Based on the following text") {
		t.Errorf("Expected first prompt line in response, got %q", a)
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("missing api key")
	_, err := Unavailable(cause).Complete(context.Background(), "x")
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, cause) {
		t.Errorf("Expected wrapped cause, got %v", err)
	}
}
