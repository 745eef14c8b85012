package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// geminiProvider speaks the Google Generative Language REST API.
type geminiProvider struct {
	baseURL string
	client  *http.Client
}

func newGemini(baseURL string, client *http.Client) *geminiProvider {
	return &geminiProvider{baseURL: baseURL, client: client}
}

func (p *geminiProvider) Kind() Kind { return KindGemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	TopP            float32 `json:"topP,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiEmbedRequest struct {
	Requests []geminiEmbedSingle `json:"requests"`
}

type geminiEmbedSingle struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

type geminiModelsResponse struct {
	Models []struct {
		Name             string `json:"name"`
		OutputTokenLimit int    `json:"outputTokenLimit"`
	} `json:"models"`
}

// ValidateKey checks the credential by listing models.
func (p *geminiProvider) ValidateKey(ctx context.Context, key string) error {
	_, err := p.Models(ctx, key)
	return err
}

// Models lists the model IDs available to the credential. The API returns
// names like "models/gemini-1.5-flash"; the prefix is stripped.
func (p *geminiProvider) Models(ctx context.Context, key string) ([]string, error) {
	resp, err := p.listModels(ctx, key)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
	}
	return ids, nil
}

// Embed generates embeddings via batchEmbedContents, one vector per text.
func (p *geminiProvider) Embed(ctx context.Context, key, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	payload := geminiEmbedRequest{Requests: make([]geminiEmbedSingle, 0, len(texts))}
	for _, text := range texts {
		payload.Requests = append(payload.Requests, geminiEmbedSingle{
			Model:   "models/" + model,
			Content: geminiContent{Parts: []geminiPart{{Text: text}}},
		})
	}

	path := fmt.Sprintf("/v1beta/models/%s:batchEmbedContents", model)
	var embedResp geminiEmbedResponse
	if err := p.post(ctx, key, path, payload, &embedResp); err != nil {
		return nil, err
	}

	if len(embedResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embedResp.Embeddings))
	}

	result := make([][]float32, len(embedResp.Embeddings))
	for i, e := range embedResp.Embeddings {
		result[i] = e.Values
	}
	return result, nil
}

// Generate sends a generateContent request and returns the first candidate.
func (p *geminiProvider) Generate(ctx context.Context, key, model, prompt string, params GenerationParams) (string, error) {
	payload := geminiGenerateRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxTokens,
			TopP:            params.TopP,
		},
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", model)
	var genResp geminiGenerateResponse
	if err := p.post(ctx, key, path, payload, &genResp); err != nil {
		return "", err
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var text string
	for _, part := range genResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}

// ModelMaxTokens reads outputTokenLimit from the models listing.
func (p *geminiProvider) ModelMaxTokens(ctx context.Context, key, model string) (int, error) {
	resp, err := p.listModels(ctx, key)
	if err != nil {
		return 0, err
	}
	for _, m := range resp.Models {
		if strings.TrimPrefix(m.Name, "models/") == model && m.OutputTokenLimit > 0 {
			return m.OutputTokenLimit, nil
		}
	}
	return 0, &ConfigurationError{Provider: string(KindGemini), Model: model, Reason: "unknown model token limit"}
}

func (p *geminiProvider) listModels(ctx context.Context, key string) (*geminiModelsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1beta/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)

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

	var modelsResp geminiModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &modelsResp, nil
}

func (p *geminiProvider) post(ctx context.Context, key, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)
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

func (p *geminiProvider) checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Provider: string(KindGemini), Reason: "credential rejected"}
	}
	return &UpstreamError{Provider: string(KindGemini), StatusCode: resp.StatusCode, Body: string(raw)}
}
