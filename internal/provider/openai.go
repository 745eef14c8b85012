package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// openAICompatible speaks the OpenAI wire format. It backs the openai,
// openrouter and local variants, which differ only in base URL and in how
// model token limits are discovered.
type openAICompatible struct {
	kind    Kind
	baseURL string
	client  *http.Client
}

func newOpenAICompatible(kind Kind, baseURL string, client *http.Client) *openAICompatible {
	return &openAICompatible{
		kind:    kind,
		baseURL: baseURL,
		client:  client,
	}
}

func (p *openAICompatible) Kind() Kind { return p.kind }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float32       `json:"temperature,omitempty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	TopP             float32       `json:"top_p,omitempty"`
	FrequencyPenalty float32       `json:"frequency_penalty,omitempty"`
	PresencePenalty  float32       `json:"presence_penalty,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
		// ContextLength is populated by OpenRouter and llama.cpp builds.
		ContextLength int `json:"context_length,omitempty"`
	} `json:"data"`
}

// ValidateKey checks the credential by listing models, the cheapest
// authenticated call in the OpenAI API surface.
func (p *openAICompatible) ValidateKey(ctx context.Context, key string) error {
	_, err := p.Models(ctx, key)
	return err
}

// Models lists the model IDs available to the credential.
func (p *openAICompatible) Models(ctx context.Context, key string) ([]string, error) {
	resp, err := p.listModels(ctx, key)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Embed generates embeddings for the given texts.
// Returns one float32 vector per input text, in input order.
func (p *openAICompatible) Embed(ctx context.Context, key, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	var embResp embeddingsResponse
	if err := p.post(ctx, key, "/v1/embeddings", embeddingsRequest{Model: model, Input: texts}, &embResp); err != nil {
		return nil, err
	}

	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embResp.Data))
	}

	result := make([][]float32, len(embResp.Data))
	for i, data := range embResp.Data {
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}
	return result, nil
}

// Generate sends a chat completion request and returns the first choice.
func (p *openAICompatible) Generate(ctx context.Context, key, model, prompt string, params GenerationParams) (string, error) {
	payload := chatCompletionRequest{
		Model:            model,
		Messages:         []chatMessage{{Role: "user", Content: prompt}},
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
	}

	var chatResp chatCompletionResponse
	if err := p.post(ctx, key, "/v1/chat/completions", payload, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// ModelMaxTokens reports the model's maximum output token budget.
// OpenRouter and llama.cpp expose context_length on the models endpoint;
// for plain OpenAI a static table covers the known models.
func (p *openAICompatible) ModelMaxTokens(ctx context.Context, key, model string) (int, error) {
	if p.kind == KindOpenAI {
		if limit, ok := openAIMaxTokens[model]; ok {
			return limit, nil
		}
		return 0, &ConfigurationError{Provider: string(p.kind), Model: model, Reason: "unknown model token limit"}
	}

	resp, err := p.listModels(ctx, key)
	if err != nil {
		return 0, err
	}
	for _, m := range resp.Data {
		if m.ID == model && m.ContextLength > 0 {
			return m.ContextLength, nil
		}
	}
	return 0, &ConfigurationError{Provider: string(p.kind), Model: model, Reason: "unknown model token limit"}
}

// openAIMaxTokens maps OpenAI model IDs to their maximum completion tokens.
var openAIMaxTokens = map[string]int{
	"gpt-4o":        16384,
	"gpt-4o-mini":   16384,
	"gpt-4-turbo":   4096,
	"gpt-4":         8192,
	"gpt-3.5-turbo": 4096,
}

func (p *openAICompatible) listModels(ctx context.Context, key string) (*modelsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := p.checkStatus(resp); err != nil {
		return nil, err
	}

	var modelsResp modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &modelsResp, nil
}

func (p *openAICompatible) post(ctx context.Context, key, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := p.checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (p *openAICompatible) checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Provider: string(p.kind), Reason: "credential rejected"}
	}
	return &UpstreamError{Provider: string(p.kind), StatusCode: resp.StatusCode, Body: string(raw)}
}
