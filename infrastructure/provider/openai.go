package provider

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bookdam/bookdam/internal/config"
)

// OpenAIProvider implements text generation and embedding using the
// OpenAI API, or any OpenAI-compatible endpoint via a custom base URL.
type OpenAIProvider struct {
	client     *openai.Client
	chatModel  string
	embedModel string
}

// OpenAIProviderOption is a functional option for OpenAIProvider.
type OpenAIProviderOption func(*OpenAIProvider)

// WithChatModel sets the chat completion model.
func WithChatModel(model string) OpenAIProviderOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.chatModel = model
		}
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) OpenAIProviderOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.embedModel = model
		}
	}
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIProviderOption) *OpenAIProvider {
	p := &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		chatModel:  "gpt-4o-mini",
		embedModel: "text-embedding-3-small",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOpenAIProviderFromEndpoint creates a provider from endpoint configuration.
func NewOpenAIProviderFromEndpoint(endpoint config.Endpoint) *OpenAIProvider {
	cfg := openai.DefaultConfig(endpoint.APIKey())
	if endpoint.BaseURL() != "" {
		cfg.BaseURL = endpoint.BaseURL()
	}
	if endpoint.Timeout() > 0 {
		cfg.HTTPClient = &http.Client{Timeout: endpoint.Timeout()}
	}

	p := &OpenAIProvider{
		client:     openai.NewClientWithConfig(cfg),
		chatModel:  "gpt-4o-mini",
		embedModel: "text-embedding-3-small",
	}
	WithChatModel(endpoint.Model())(p)
	WithEmbeddingModel(endpoint.EmbedModel())(p)
	return p
}

// Close is a no-op for the OpenAI provider.
func (p *OpenAIProvider) Close() error { return nil }

// ChatCompletion generates a chat completion.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages()))
	for i, m := range req.Messages() {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role(),
			Content: m.Content(),
		}
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: messages,
	}
	if req.MaxTokens() > 0 {
		openaiReq.MaxTokens = req.MaxTokens()
	}
	if req.Temperature() > 0 {
		openaiReq.Temperature = float32(req.Temperature())
	}
	if req.ForceJSON() {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return ChatCompletionResponse{}, NewProviderError("chat_completion", 0, "request failed", err)
	}
	if len(resp.Choices) == 0 {
		return ChatCompletionResponse{}, NewProviderError("chat_completion", 0, "no choices in response", ErrEmptyResponse)
	}

	usage := NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	return NewChatCompletionResponse(resp.Choices[0].Message.Content, string(resp.Choices[0].FinishReason), usage), nil
}

// Embed generates embeddings for the given texts.
func (p *OpenAIProvider) Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	texts := req.Texts()
	if len(texts) == 0 {
		return NewEmbeddingResponse(nil, NewUsage(0, 0, 0)), nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.embedModel),
		Input: texts,
	})
	if err != nil {
		return EmbeddingResponse{}, NewProviderError("embedding", 0, "request failed", err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			embeddings[i][j] = float64(v)
		}
	}
	usage := NewUsage(resp.Usage.PromptTokens, 0, resp.Usage.TotalTokens)
	return NewEmbeddingResponse(embeddings, usage), nil
}
