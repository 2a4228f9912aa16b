package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/triagegrid/triagegrid/pkg/llm"
)

// Provider implements the LanguageModel interface for OpenAI using native
// json_schema structured outputs.
type Provider struct {
	client *openai.Client
	apiKey string
	model  string
}

// New creates a new OpenAI provider. An empty API key is accepted; calls
// will fail at request time instead.
func New(apiKey, model string) *Provider {
	clientConfig := openai.DefaultConfig(apiKey)

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		apiKey: apiKey,
		model:  model,
	}
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("openai:%s", p.model)
}

// GenerateObject implements the GenerateObject method of the LanguageModel interface
func (p *Provider) GenerateObject(ctx context.Context, req llm.GenerateObjectRequest) (*llm.GenerateObjectResponse, error) {
	if p.apiKey == "" {
		return nil, llm.ErrMissingAPIKey
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		},
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, llm.ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, llm.ErrEmptyResponse
	}

	log.Debug().
		Str("model", resp.Model).
		Str("schema", req.SchemaName).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("Structured completion from openai provider")

	return &llm.GenerateObjectResponse{
		Output: json.RawMessage(content),
		Model:  resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
