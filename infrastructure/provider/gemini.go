package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bookdam/bookdam/internal/config"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// Generation defaults tuned for structured extraction: low temperature,
// modest output window.
const (
	geminiTemperature     = 0.3
	geminiTopP            = 0.8
	geminiTopK            = 40
	geminiMaxOutputTokens = 800
)

// GeminiProvider implements text generation and embedding against the
// Gemini REST API. The base URL is configurable so the provider also
// works behind API gateways that proxy Gemini.
type GeminiProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	chatModel  string
	embedModel string
}

// GeminiProviderOption is a functional option for GeminiProvider.
type GeminiProviderOption func(*GeminiProvider)

// WithGeminiBaseURL overrides the API base URL.
func WithGeminiBaseURL(url string) GeminiProviderOption {
	return func(p *GeminiProvider) {
		if url != "" {
			p.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithGeminiChatModel sets the generation model.
func WithGeminiChatModel(model string) GeminiProviderOption {
	return func(p *GeminiProvider) {
		if model != "" {
			p.chatModel = model
		}
	}
}

// WithGeminiEmbedModel sets the embedding model.
func WithGeminiEmbedModel(model string) GeminiProviderOption {
	return func(p *GeminiProvider) {
		if model != "" {
			p.embedModel = model
		}
	}
}

// WithGeminiHTTPClient replaces the HTTP client, mainly for tests.
func WithGeminiHTTPClient(client *http.Client) GeminiProviderOption {
	return func(p *GeminiProvider) { p.httpClient = client }
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey string, opts ...GeminiProviderOption) *GeminiProvider {
	p := &GeminiProvider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultGeminiBaseURL,
		apiKey:     apiKey,
		chatModel:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewGeminiProviderFromEndpoint creates a provider from endpoint configuration.
func NewGeminiProviderFromEndpoint(endpoint config.Endpoint) *GeminiProvider {
	client := &http.Client{}
	if endpoint.Timeout() > 0 {
		client.Timeout = endpoint.Timeout()
	}
	if endpoint.ConnectTimeout() > 0 {
		client.Transport = &http.Transport{
			DialContext:         (&net.Dialer{Timeout: endpoint.ConnectTimeout()}).DialContext,
			TLSHandshakeTimeout: endpoint.ConnectTimeout(),
		}
	}
	return NewGeminiProvider(endpoint.APIKey(),
		WithGeminiBaseURL(endpoint.BaseURL()),
		WithGeminiChatModel(endpoint.Model()),
		WithGeminiEmbedModel(endpoint.EmbedModel()),
		WithGeminiHTTPClient(client),
	)
}

// Close is a no-op for the Gemini provider.
func (p *GeminiProvider) Close() error { return nil }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// ChatCompletion generates text with generateContent. Messages are
// flattened into a single user turn; Gemini has no system role on
// this endpoint.
func (p *GeminiProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	parts := make([]string, 0, len(req.Messages()))
	for _, m := range req.Messages() {
		parts = append(parts, m.Content())
	}
	genCfg := geminiGenerationConfig{
		Temperature:     geminiTemperature,
		TopP:            geminiTopP,
		TopK:            geminiTopK,
		MaxOutputTokens: geminiMaxOutputTokens,
	}
	if req.Temperature() > 0 {
		genCfg.Temperature = req.Temperature()
	}
	if req.MaxTokens() > 0 {
		genCfg.MaxOutputTokens = req.MaxTokens()
	}
	if req.ForceJSON() {
		genCfg.ResponseMimeType = "application/json"
	}
	body := geminiGenerateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: strings.Join(parts, "\n\n")}}, Role: "user"},
		},
		GenerationConfig: genCfg,
	}

	var out geminiGenerateResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, p.chatModel)
	if err := p.post(ctx, "chat_completion", url, body, &out); err != nil {
		return ChatCompletionResponse{}, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return ChatCompletionResponse{}, NewProviderError("chat_completion", 0, "no candidates in response", ErrEmptyResponse)
	}
	usage := NewUsage(
		out.UsageMetadata.PromptTokenCount,
		out.UsageMetadata.CandidatesTokenCount,
		out.UsageMetadata.TotalTokenCount,
	)
	return NewChatCompletionResponse(out.Candidates[0].Content.Parts[0].Text, out.Candidates[0].FinishReason, usage), nil
}

type geminiEmbedRequest struct {
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiBatchEmbedEntry `json:"requests"`
}

type geminiBatchEmbedEntry struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

// Embed generates one vector per input text, using embedContent for a
// single text and batchEmbedContents otherwise.
func (p *GeminiProvider) Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	texts := req.Texts()
	if len(texts) == 0 {
		return NewEmbeddingResponse(nil, NewUsage(0, 0, 0)), nil
	}
	if len(texts) == 1 {
		body := geminiEmbedRequest{Content: geminiContent{Parts: []geminiPart{{Text: texts[0]}}}}
		var out geminiEmbedResponse
		url := fmt.Sprintf("%s/v1beta/models/%s:embedContent", p.baseURL, p.embedModel)
		if err := p.post(ctx, "embedding", url, body, &out); err != nil {
			return EmbeddingResponse{}, err
		}
		return NewEmbeddingResponse([][]float64{out.Embedding.Values}, NewUsage(0, 0, 0)), nil
	}

	entries := make([]geminiBatchEmbedEntry, len(texts))
	for i, text := range texts {
		entries[i] = geminiBatchEmbedEntry{
			Model:   "models/" + p.embedModel,
			Content: geminiContent{Parts: []geminiPart{{Text: text}}},
		}
	}
	var out geminiBatchEmbedResponse
	url := fmt.Sprintf("%s/v1beta/models/%s:batchEmbedContents", p.baseURL, p.embedModel)
	if err := p.post(ctx, "batch_embedding", url, geminiBatchEmbedRequest{Requests: entries}, &out); err != nil {
		return EmbeddingResponse{}, err
	}
	if len(out.Embeddings) != len(texts) {
		return EmbeddingResponse{}, NewProviderError("batch_embedding", 0,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(out.Embeddings)), ErrEmptyResponse)
	}
	vectors := make([][]float64, len(out.Embeddings))
	for i, e := range out.Embeddings {
		vectors[i] = e.Values
	}
	return NewEmbeddingResponse(vectors, NewUsage(0, 0, 0)), nil
}

func (p *GeminiProvider) post(ctx context.Context, operation, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return NewProviderError(operation, 0, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return NewProviderError(operation, 0, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return NewProviderError(operation, 0, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewProviderError(operation, resp.StatusCode, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return NewProviderError(operation, resp.StatusCode, truncateBody(data), nil)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewProviderError(operation, resp.StatusCode, "decode response", err)
	}
	return nil
}

func truncateBody(data []byte) string {
	const limit = 512
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
