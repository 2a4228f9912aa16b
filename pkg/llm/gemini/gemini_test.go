package gemini

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagegrid/triagegrid/pkg/llm"
)

func TestNewWithoutAPIKey(t *testing.T) {
	provider, err := New(context.Background(), "", "gemini-2.0-flash")
	require.NoError(t, err)
	require.NotNil(t, provider)

	_, err = provider.GenerateObject(context.Background(), llm.GenerateObjectRequest{
		Prompt:     "categorize this",
		SchemaName: "category",
		Schema:     json.RawMessage(`{"type": "object"}`),
	})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}
