package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/triagegrid/triagegrid/pkg/llm"
)

// Provider implements the LanguageModel interface for Anthropic Claude.
// Claude has no server-side json_schema response format, so the schema is
// embedded in the system prompt and the JSON object is extracted from the
// text block of the reply.
type Provider struct {
	client anthropic.Client
	apiKey string
	model  string
}

// New creates a new Anthropic provider. An empty API key is accepted; calls
// will fail at request time instead.
func New(apiKey, model string) *Provider {
	return &Provider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		apiKey: apiKey,
		model:  model,
	}
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("anthropic:%s", p.model)
}

// GenerateObject implements the GenerateObject method of the LanguageModel interface
func (p *Provider) GenerateObject(ctx context.Context, req llm.GenerateObjectRequest) (*llm.GenerateObjectResponse, error) {
	if p.apiKey == "" {
		return nil, llm.ErrMissingAPIKey
	}

	system := fmt.Sprintf(
		"%s\n\nRespond with a single JSON object and nothing else. The object must conform to this JSON schema (name: %s):\n%s",
		req.System, req.SchemaName, string(req.Schema),
	)

	msgReq := anthropic.MessageNewParams{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		System: []anthropic.TextBlockParam{{Text: system}},
	}

	if req.MaxTokens > 0 {
		msgReq.MaxTokens = int64(req.MaxTokens)
	} else {
		// Anthropic requires max_tokens
		msgReq.MaxTokens = int64(1024)
	}

	if req.Temperature > 0 {
		msgReq.Temperature = anthropic.Float(float64(req.Temperature))
	}

	resp, err := p.client.Messages.New(ctx, msgReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var textContent strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			textContent.WriteString(block.Text)
		}
	}

	raw := extractJSONObject(textContent.String())
	if raw == "" {
		return nil, llm.ErrEmptyResponse
	}

	return &llm.GenerateObjectResponse{
		Output: json.RawMessage(raw),
		Model:  string(resp.Model),
		Usage: llm.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

// extractJSONObject trims prose and markdown fences around the first JSON
// object in the text. Returns "" when no object is present.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return ""
	}
	return candidate
}
