package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestGemini_Generate(t *testing.T) {
	p := newTestProvider(t, KindGemini, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "g-key" {
			t.Error("missing x-goog-api-key header")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Hello from "},
					{"text": "Gemini"},
				}}},
			},
		})
	})

	reply, err := p.Generate(context.Background(), "g-key", "gemini-1.5-flash", "Hi", GenerationParams{MaxTokens: 512})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "Hello from Gemini" {
		t.Errorf("Generate() = %q, want parts concatenated", reply)
	}
}

func TestGemini_Embed(t *testing.T) {
	p := newTestProvider(t, KindGemini, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/text-embedding-004:batchEmbedContents") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req geminiEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Requests) != 2 || req.Requests[0].Model != "models/text-embedding-004" {
			t.Errorf("requests = %+v", req.Requests)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": []map[string]any{
				{"values": []float32{0.01, 0.02}},
				{"values": []float32{0.03, 0.04}},
			},
		})
	})

	got, err := p.Embed(context.Background(), "g-key", "text-embedding-004", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != 2 || got[0][1] != float32(0.02) {
		t.Errorf("Embed() = %v", got)
	}
}

func TestGemini_Models_StripsPrefix(t *testing.T) {
	p := newTestProvider(t, KindGemini, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "models/gemini-1.5-flash", "outputTokenLimit": 8192},
				{"name": "models/text-embedding-004"},
			},
		})
	})

	got, err := p.Models(context.Background(), "g-key")
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(got) != 2 || got[0] != "gemini-1.5-flash" {
		t.Errorf("Models() = %v, want the models/ prefix stripped", got)
	}
}

func TestGemini_ModelMaxTokens(t *testing.T) {
	p := newTestProvider(t, KindGemini, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "models/gemini-1.5-flash", "outputTokenLimit": 8192},
			},
		})
	})

	limit, err := p.ModelMaxTokens(context.Background(), "g-key", "gemini-1.5-flash")
	if err != nil {
		t.Fatalf("ModelMaxTokens() error = %v", err)
	}
	if limit != 8192 {
		t.Errorf("ModelMaxTokens() = %d, want 8192", limit)
	}

	if _, err := p.ModelMaxTokens(context.Background(), "g-key", "gemini-unknown"); err == nil {
		t.Error("ModelMaxTokens() expected error for an unknown model")
	}
}
