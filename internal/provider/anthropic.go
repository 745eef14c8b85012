package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const anthropicVersion = "2023-06-01"

// anthropicProvider speaks the Anthropic Messages API. Anthropic offers no
// embedding endpoint, so Embed always fails with a ConfigurationError.
type anthropicProvider struct {
	baseURL string
	client  *http.Client
}

func newAnthropic(baseURL string, client *http.Client) *anthropicProvider {
	return &anthropicProvider{baseURL: baseURL, client: client}
}

func (p *anthropicProvider) Kind() Kind { return KindAnthropic }

type anthropicMessagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	TopP        float32       `json:"top_p,omitempty"`
}

type anthropicMessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ValidateKey checks the credential by listing models.
func (p *anthropicProvider) ValidateKey(ctx context.Context, key string) error {
	_, err := p.Models(ctx, key)
	return err
}

// Models lists the model IDs available to the credential.
func (p *anthropicProvider) Models(ctx context.Context, key string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req, key)

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

	var modelsResp anthropicModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]string, 0, len(modelsResp.Data))
	for _, m := range modelsResp.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Embed is unsupported: Anthropic has no embeddings endpoint.
func (p *anthropicProvider) Embed(ctx context.Context, key, model string, texts []string) ([][]float32, error) {
	return nil, &ConfigurationError{Provider: string(KindAnthropic), Model: model, Reason: "provider does not support embeddings"}
}

// Generate sends a messages request and concatenates the text blocks.
func (p *anthropicProvider) Generate(ctx context.Context, key, model, prompt string, params GenerationParams) (string, error) {
	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		// max_tokens is mandatory on this API.
		maxTokens = 1024
	}

	payload := anthropicMessagesRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req, key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := p.checkStatus(resp); err != nil {
		return "", err
	}

	var msgResp anthropicMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var text string
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content returned")
	}
	return text, nil
}

// ModelMaxTokens reports the model's maximum output token budget from a
// static table keyed by model family prefix.
func (p *anthropicProvider) ModelMaxTokens(ctx context.Context, key, model string) (int, error) {
	for prefix, limit := range anthropicMaxTokens {
		if len(model) >= len(prefix) && model[:len(prefix)] == prefix {
			return limit, nil
		}
	}
	return 0, &ConfigurationError{Provider: string(KindAnthropic), Model: model, Reason: "unknown model token limit"}
}

var anthropicMaxTokens = map[string]int{
	"claude-3-5-sonnet": 8192,
	"claude-3-5-haiku":  8192,
	"claude-3-opus":     4096,
	"claude-3-sonnet":   4096,
	"claude-3-haiku":    4096,
}

func (p *anthropicProvider) setHeaders(req *http.Request, key string) {
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", anthropicVersion)
}

func (p *anthropicProvider) checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Provider: string(KindAnthropic), Reason: "credential rejected"}
	}
	return &UpstreamError{Provider: string(KindAnthropic), StatusCode: resp.StatusCode, Body: string(raw)}
}
