package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrEmptyResponse is returned when the provider returns no output.
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrMissingAPIKey is returned at request time when the provider was
	// constructed without a credential. Construction itself never fails on
	// a missing key.
	ErrMissingAPIKey = errors.New("api key not configured")
)

// GenerateObjectRequest asks a model for a single JSON object conforming to
// the declared schema.
type GenerateObjectRequest struct {
	// System is the fixed instruction set for the call.
	System string `json:"system"`

	// Prompt is the dynamic user content.
	Prompt string `json:"prompt"`

	// SchemaName identifies the output contract (e.g. "category").
	SchemaName string `json:"schema_name"`

	// Schema is the raw JSON-schema document the output must conform to.
	Schema json.RawMessage `json:"schema"`

	// Temperature controls randomness (0.0 to 2.0).
	Temperature float32 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// GenerateObjectResponse carries the raw JSON output of a structured call.
// Callers are expected to validate Output against the request schema before
// trusting it.
type GenerateObjectResponse struct {
	Output json.RawMessage `json:"output"`
	Model  string          `json:"model"`
	Usage  Usage           `json:"usage"`
}

// Usage tracks token consumption for a single call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LanguageModel is the interface every provider implements. The service
// treats the model as an opaque function: text in, structured JSON out,
// fallible.
type LanguageModel interface {
	// GenerateObject produces one JSON document (blocking).
	GenerateObject(ctx context.Context, req GenerateObjectRequest) (*GenerateObjectResponse, error)

	// ID returns the unique identifier for this model.
	ID() string
}
