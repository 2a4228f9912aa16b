package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagegrid/triagegrid/pkg/domain"
	"github.com/triagegrid/triagegrid/pkg/llm"
)

func newTestPipeline(t *testing.T, model *fakeModel, mode Mode) *Pipeline {
	t.Helper()

	return NewPipeline(PipelineDependencies{
		Client: newTestClient(t, model),
		Mode:   mode,
	})
}

func TestPipelineRun(t *testing.T) {
	t.Run("happy path populates every field", func(t *testing.T) {
		model := &fakeModel{responses: map[string]string{
			"category":   `{"category": "Love"}`,
			"confidence": `{"confidence": 92, "reasoning": "unambiguous praise"}`,
			"response":   `{"response": "So glad you love them!", "action": "DM/Comment"}`,
		}}
		pipeline := newTestPipeline(t, model, ModeStaged)

		result := pipeline.Run(context.Background(), "I love your protein bars!")

		assert.Equal(t, domain.CategoryLove, result.Category)
		assert.Equal(t, 92.0, result.Confidence)
		assert.Equal(t, "So glad you love them!", result.Response)
		assert.Equal(t, domain.ActionDMComment, result.Action)

		row := domain.NewRow()
		row.Message = "I love your protein bars!"
		row.Apply(result)
		assert.Equal(t, domain.StatusAutomated, row.Status())
	})

	t.Run("stages run strictly in sequence", func(t *testing.T) {
		model := &fakeModel{responses: map[string]string{
			"category":   `{"category": "Hiring"}`,
			"confidence": `{"confidence": 75, "reasoning": "role question"}`,
			"response":   `{"response": "Please see our careers page.", "action": "Email"}`,
		}}
		pipeline := newTestPipeline(t, model, ModeStaged)

		pipeline.Run(context.Background(), "are you hiring?")

		require.Len(t, model.requests, 3)
		assert.Equal(t, "category", model.requests[0].SchemaName)
		assert.Equal(t, "confidence", model.requests[1].SchemaName)
		assert.Equal(t, "response", model.requests[2].SchemaName)
	})

	t.Run("categorize failure still feeds Others downstream", func(t *testing.T) {
		model := &fakeModel{
			errs: map[string]error{"category": errors.New("boom")},
			responses: map[string]string{
				"confidence": `{"confidence": 70, "reasoning": "guess"}`,
				"response":   `{"response": "We will look into this.", "action": "CRM Ticket"}`,
			},
		}
		pipeline := newTestPipeline(t, model, ModeStaged)

		result := pipeline.Run(context.Background(), "hmm")

		assert.Equal(t, domain.CategoryOthers, result.Category)
		assert.Equal(t, 70.0, result.Confidence)

		scoreReqs := model.requestsFor("confidence")
		require.Len(t, scoreReqs, 1)
		assert.Contains(t, scoreReqs[0].Prompt, string(domain.CategoryOthers))
	})

	t.Run("confidence failure does not block the response stage", func(t *testing.T) {
		model := &fakeModel{
			errs: map[string]error{"confidence": errors.New("boom")},
			responses: map[string]string{
				"category": `{"category": "Grievance"}`,
				"response": `{"response": "Sorry about that.", "action": "CRM Ticket"}`,
			},
		}
		pipeline := newTestPipeline(t, model, ModeStaged)

		result := pipeline.Run(context.Background(), "this broke immediately")

		assert.Equal(t, domain.CategoryGrievance, result.Category)
		assert.Equal(t, float64(FallbackConfidence), result.Confidence)
		assert.Equal(t, "Sorry about that.", result.Response)
		require.Len(t, model.requestsFor("response"), 1)
	})

	t.Run("total outage yields the full fallback tuple", func(t *testing.T) {
		pipeline := newTestPipeline(t, &fakeModel{failAll: true}, ModeStaged)

		result := pipeline.Run(context.Background(), "anything at all")

		assert.Equal(t, domain.Classification{
			Category:   domain.CategoryOthers,
			Confidence: FallbackConfidence,
			Response:   FallbackResponse,
			Action:     domain.ActionCRMTicket,
		}, result)
	})

	t.Run("single stage failure never leaves fields unpopulated", func(t *testing.T) {
		for _, failing := range []string{"category", "confidence", "response"} {
			model := &fakeModel{
				errs: map[string]error{failing: errors.New("boom")},
				responses: map[string]string{
					"category":   `{"category": "Love"}`,
					"confidence": `{"confidence": 85, "reasoning": "fine"}`,
					"response":   `{"response": "Thanks!", "action": "DM/Comment"}`,
				},
			}
			pipeline := newTestPipeline(t, model, ModeStaged)

			result := pipeline.Run(context.Background(), "hello there")

			assert.NotEmpty(t, result.Category, "failing stage %s", failing)
			assert.NotEmpty(t, result.Response, "failing stage %s", failing)
			assert.NotEmpty(t, result.Action, "failing stage %s", failing)
			assert.GreaterOrEqual(t, result.Confidence, 0.0, "failing stage %s", failing)
			assert.LessOrEqual(t, result.Confidence, 100.0, "failing stage %s", failing)
		}
	})
}

func TestPipelineCombinedMode(t *testing.T) {
	t.Run("one call only", func(t *testing.T) {
		model := &fakeModel{responses: map[string]string{
			"classification": `{"category": "Love", "confidence": 95, "actionableText": "Say thanks publicly"}`,
		}}
		pipeline := newTestPipeline(t, model, ModeCombined)

		result := pipeline.Run(context.Background(), "I love your protein bars!")

		assert.Equal(t, 1, model.callCount())
		assert.Equal(t, domain.CategoryLove, result.Category)
		assert.Equal(t, 95.0, result.Confidence)
		assert.Equal(t, "Say thanks publicly", result.Response)
	})

	t.Run("outage falls back to Others with zero confidence", func(t *testing.T) {
		pipeline := newTestPipeline(t, &fakeModel{failAll: true}, ModeCombined)

		result := pipeline.Run(context.Background(), "anything")

		assert.Equal(t, domain.Classification{Category: domain.CategoryOthers}, result)
		assert.Zero(t, result.Confidence)
	})
}

// stalledModel blocks every call until the request context is cancelled.
type stalledModel struct{}

func (s *stalledModel) GenerateObject(ctx context.Context, req llm.GenerateObjectRequest) (*llm.GenerateObjectResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *stalledModel) ID() string { return "stalled:test" }

func TestPipelineDeadline(t *testing.T) {
	pipeline := NewPipeline(PipelineDependencies{
		Client:  newTestClient(t, &stalledModel{}),
		Timeout: 20 * time.Millisecond,
	})

	start := time.Now()
	result := pipeline.Run(context.Background(), "where is my order?")
	elapsed := time.Since(start)

	assert.Equal(t, domain.Classification{
		Category:   domain.CategoryOthers,
		Confidence: FallbackConfidence,
		Response:   FallbackResponse,
		Action:     domain.ActionCRMTicket,
	}, result)
	assert.Less(t, elapsed, time.Second, "run must finish shortly after the deadline")
}

func TestPipelineDefaultsToStagedMode(t *testing.T) {
	pipeline := NewPipeline(PipelineDependencies{Client: newTestClient(t, &fakeModel{failAll: true})})
	assert.Equal(t, ModeStaged, pipeline.Mode())
}
