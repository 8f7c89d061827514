package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
	// DefaultCompletionModel is the OpenAI model used for chat completions
	DefaultCompletionModel = openai.GPT4oMini
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions, expected 1536")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrEmptyCompletion is returned when the model returns no choices
	ErrEmptyCompletion = errors.New("no completion choices returned")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// CompletionAPI defines the interface for chat completion generation
type CompletionAPI interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries one chat completion call. A single attempt is
// made per request; retry policy belongs to the caller.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// Client wraps the OpenAI API client
type Client struct {
	api        EmbeddingAPI
	completion CompletionAPI
	dimensions int
}

type OpenAIAdapter struct {
	client          *openai.Client
	model           openai.EmbeddingModel
	completionModel string
}

func NewOpenAIAdapter(apiKey string, model openai.EmbeddingModel, completionModel string) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if completionModel == "" {
		completionModel = DefaultCompletionModel
	}
	return &OpenAIAdapter{
		client:          openai.NewClient(apiKey),
		model:           model,
		completionModel: completionModel,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// CreateCompletion calls the OpenAI chat completion API
func (a *OpenAIAdapter) CreateCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.completionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey              string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
	CompletionModel     string
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	adapter := NewOpenAIAdapter(cfg.APIKey, cfg.EmbeddingModel, cfg.CompletionModel)
	return &Client{
		api:        adapter,
		completion: adapter,
		dimensions: dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	expected := c.dimensions
	if expected <= 0 {
		expected = DefaultEmbeddingDimensions
	}
	if len(embedding) != expected {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}

// Complete generates a chat completion for the given prompts
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error) {
	if userPrompt == "" {
		return "", ErrEmptyText
	}

	text, err := c.completion.CreateCompletion(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	return text, nil
}
