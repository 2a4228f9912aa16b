package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/triagegrid/triagegrid/pkg/llm"
)

// Provider implements the LanguageModel interface for Google Gemini. The
// response MIME type is forced to application/json and the output contract
// is described in the system instruction.
type Provider struct {
	client *genai.Client
	apiKey string
	model  string
}

// New creates a new Gemini provider. Without an API key the SDK refuses to
// construct a client, so the provider is returned clientless and every
// request fails with ErrMissingAPIKey instead.
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	provider := &Provider{
		apiKey: apiKey,
		model:  model,
	}
	if apiKey == "" {
		return provider, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	provider.client = client
	return provider, nil
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("gemini:%s", p.model)
}

// GenerateObject implements the GenerateObject method of the LanguageModel interface
func (p *Provider) GenerateObject(ctx context.Context, req llm.GenerateObjectRequest) (*llm.GenerateObjectResponse, error) {
	if p.apiKey == "" {
		return nil, llm.ErrMissingAPIKey
	}

	system := fmt.Sprintf(
		"%s\n\nRespond with a single JSON object conforming to this JSON schema (name: %s):\n%s",
		req.System, req.SchemaName, string(req.Schema),
	)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		},
	}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{genai.NewPartFromText(req.Prompt)}},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, llm.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]

	var text string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return nil, llm.ErrEmptyResponse
	}

	response := &llm.GenerateObjectResponse{
		Output: json.RawMessage(text),
		Model:  p.model,
	}

	if resp.UsageMetadata != nil {
		response.Usage = llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return response, nil
}
