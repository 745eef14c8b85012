package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestAnthropic_Generate(t *testing.T) {
	p := newTestProvider(t, KindAnthropic, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("expected /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-ant-test" {
			t.Error("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		var req anthropicMessagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MaxTokens != 2048 {
			t.Errorf("max_tokens = %d, want 2048", req.MaxTokens)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "Hello "},
				{"type": "text", "text": "world"},
			},
		})
	})

	reply, err := p.Generate(context.Background(), "sk-ant-test", "claude-3-5-sonnet-latest", "Hi", GenerationParams{MaxTokens: 2048})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "Hello world" {
		t.Errorf("Generate() = %q, want text blocks concatenated", reply)
	}
}

func TestAnthropic_Generate_DefaultsMaxTokens(t *testing.T) {
	p := newTestProvider(t, KindAnthropic, func(w http.ResponseWriter, r *http.Request) {
		var req anthropicMessagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// max_tokens is mandatory on this API; zero must be replaced.
		if req.MaxTokens <= 0 {
			t.Errorf("max_tokens = %d, want a positive default", req.MaxTokens)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "ok"}},
		})
	})

	if _, err := p.Generate(context.Background(), "sk-ant-test", "claude-3-5-sonnet-latest", "Hi", GenerationParams{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestAnthropic_Embed_Unsupported(t *testing.T) {
	p := newTestProvider(t, KindAnthropic, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected, embeddings are unsupported")
	})

	_, err := p.Embed(context.Background(), "sk-ant-test", "claude-3-5-sonnet-latest", []string{"a"})

	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("Embed() error = %v, want ConfigurationError", err)
	}
}

func TestAnthropic_ModelMaxTokens(t *testing.T) {
	p := newTestProvider(t, KindAnthropic, func(w http.ResponseWriter, r *http.Request) {
		t.Error("anthropic token limits come from the static table, no request expected")
	})

	tests := []struct {
		model   string
		want    int
		wantErr bool
	}{
		{model: "claude-3-5-sonnet-20241022", want: 8192},
		{model: "claude-3-opus-20240229", want: 4096},
		{model: "claude-unknown", wantErr: true},
	}

	for _, tt := range tests {
		limit, err := p.ModelMaxTokens(context.Background(), "sk-ant-test", tt.model)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ModelMaxTokens(%s) expected error", tt.model)
			}
			continue
		}
		if err != nil {
			t.Errorf("ModelMaxTokens(%s) error = %v", tt.model, err)
			continue
		}
		if limit != tt.want {
			t.Errorf("ModelMaxTokens(%s) = %d, want %d", tt.model, limit, tt.want)
		}
	}
}
