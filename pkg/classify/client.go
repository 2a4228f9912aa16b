package classify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/triagegrid/triagegrid/pkg/domain"
	"github.com/triagegrid/triagegrid/pkg/llm"
)

const (
	// FallbackConfidence is returned when the scoring stage fails. Failing
	// toward "needs review" rather than false confidence.
	FallbackConfidence = 60

	// FallbackResponse is returned when the response stage fails.
	FallbackResponse = "Error generating response"

	defaultTemperature = 0.5
)

// Client translates one input message into structured classification results
// by calling a language model with stage-specific instructions. It holds no
// mutable state; every method is a pure request/response function over the
// injected model.
type Client struct {
	model       llm.LanguageModel
	taxonomy    *Taxonomy
	temperature float32
}

type ClientDependencies struct {
	Model    llm.LanguageModel
	Taxonomy *Taxonomy
}

func NewClient(deps ClientDependencies) *Client {
	return &Client{
		model:       deps.Model,
		taxonomy:    deps.Taxonomy,
		temperature: defaultTemperature,
	}
}

// Categorize assigns the message one category from the fixed taxonomy. All
// failures are absorbed; the fallback category is Others.
func (c *Client) Categorize(ctx context.Context, message string) domain.Category {
	category, err := c.categorize(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("stage", "categorize").Msg("Classification stage failed, falling back to Others")
		return domain.CategoryOthers
	}
	return category
}

func (c *Client) categorize(ctx context.Context, message string) (domain.Category, error) {
	system := "You are a message classifier. Categorize the user's message into exactly one of the following categories:\n\n" +
		c.taxonomy.PromptList()

	var out struct {
		Category domain.Category `json:"category"`
	}
	if err := c.generate(ctx, categorySchema, system, fmt.Sprintf("categorize this message: %s", message), &out); err != nil {
		return "", err
	}
	return out.Category, nil
}

// ScoreConfidence estimates, in [0,100], how safe it is to let automation
// handle the message given its category. All failures are absorbed; the
// fallback score is exactly FallbackConfidence.
func (c *Client) ScoreConfidence(ctx context.Context, message string, category domain.Category) float64 {
	confidence, err := c.scoreConfidence(ctx, message, category)
	if err != nil {
		log.Error().Err(err).Str("stage", "confidence").Msg("Classification stage failed, falling back to conservative score")
		return FallbackConfidence
	}
	return confidence
}

func (c *Client) scoreConfidence(ctx context.Context, message string, category domain.Category) (float64, error) {
	system := "You score how confidently a customer message fits its assigned category, as a percentage.\n\n" +
		"Start from a base score of 80 when the message is a clear, unambiguous fit for the category. " +
		"Add up to 10 points when the message is explicit and self-contained. " +
		"Subtract 10 to 20 points for ambiguity, mixed intents, sarcasm, or missing context. " +
		"Never score below 60; 100 means the category is beyond doubt."

	var out struct {
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	prompt := fmt.Sprintf("message: %s\nassigned category: %s", message, category)
	if err := c.generate(ctx, confidenceSchema, system, prompt, &out); err != nil {
		return 0, err
	}

	// Reasoning is logged, never surfaced to the user.
	log.Debug().
		Str("category", string(category)).
		Float64("confidence", out.Confidence).
		Str("reasoning", out.Reasoning).
		Msg("Confidence scored")

	return clamp(out.Confidence, 0, 100), nil
}

// GenerateResponse drafts a suggested reply and picks a handling channel,
// conditioned on the outputs of the earlier stages. All failures are
// absorbed; the fallback is a generic error reply escalated to a CRM ticket.
func (c *Client) GenerateResponse(ctx context.Context, message string, category domain.Category, confidence float64) (string, domain.Action) {
	response, action, err := c.generateResponse(ctx, message, category, confidence)
	if err != nil {
		log.Error().Err(err).Str("stage", "response").Msg("Classification stage failed, falling back to human escalation")
		return FallbackResponse, domain.ActionCRMTicket
	}
	return response, action
}

func (c *Client) generateResponse(ctx context.Context, message string, category domain.Category, confidence float64) (string, domain.Action, error) {
	system := "You draft a suggested reply to a customer message and choose the handling channel.\n\n" +
		"Channels:\n" +
		"- **Email**: formal matters, or anything that needs documentation.\n" +
		"- **DM/Comment**: low-friction, casual or public exchanges.\n" +
		"- **CRM Ticket**: anything that needs tracking, follow-up, or escalation to a human."

	var out struct {
		Response string        `json:"response"`
		Action   domain.Action `json:"action"`
	}
	prompt := fmt.Sprintf("message: %s\ncategory: %s\nconfidence: %.0f", message, category, confidence)
	if err := c.generate(ctx, responseSchema, system, prompt, &out); err != nil {
		return "", "", err
	}
	return out.Response, out.Action, nil
}

// ClassifyCombined is the single-call variant: category, confidence and a
// brief actionable hint from one schema. All failures are absorbed; the
// fallback is {Others, 0, ""}.
func (c *Client) ClassifyCombined(ctx context.Context, message string) domain.Classification {
	result, err := c.classifyCombined(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("stage", "combined").Msg("Classification failed, falling back to default values")
		return domain.Classification{Category: domain.CategoryOthers}
	}
	return result
}

func (c *Client) classifyCombined(ctx context.Context, message string) (domain.Classification, error) {
	system := "You are a message classifier. Categorize the user's message into exactly one of the following categories:\n\n" +
		c.taxonomy.PromptList()

	var out struct {
		Category       domain.Category `json:"category"`
		Confidence     float64         `json:"confidence"`
		ActionableText string          `json:"actionableText"`
	}
	if err := c.generate(ctx, combinedSchema, system, fmt.Sprintf("categorize this message: %s", message), &out); err != nil {
		return domain.Classification{}, err
	}

	return domain.Classification{
		Category:   out.Category,
		Confidence: clamp(out.Confidence, 0, 100),
		Response:   out.ActionableText,
	}, nil
}

func (c *Client) generate(ctx context.Context, schema outputSchema, system, prompt string, out any) error {
	resp, err := c.model.GenerateObject(ctx, llm.GenerateObjectRequest{
		System:      system,
		Prompt:      prompt,
		SchemaName:  schema.name,
		Schema:      schema.raw,
		Temperature: c.temperature,
	})
	if err != nil {
		return err
	}
	return decodeValidated(schema, resp.Output, out)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
