package classify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/triagegrid/triagegrid/pkg/domain"
)

// State names the position of a pipeline run in its linear progression.
// Every transition is "run the stage; on fault, substitute the stage's
// typed fallback and advance", so a run always reaches StateResponded.
type State string

const (
	StatePending     State = "pending"
	StateCategorized State = "categorized"
	StateScored      State = "scored"
	StateResponded   State = "responded"
)

// Mode selects between the three-stage pipeline and the single-call variant.
type Mode string

const (
	ModeStaged   Mode = "staged"
	ModeCombined Mode = "combined"
)

// Pipeline runs the classification stages strictly in sequence for a single
// message and assembles the merged result. Stages are not parallelized:
// each later stage's prompt is conditioned on the exact output of the
// earlier ones.
type Pipeline struct {
	client  *Client
	mode    Mode
	timeout time.Duration
}

type PipelineDependencies struct {
	Client *Client
	Mode   Mode

	// Timeout bounds one full pipeline invocation. Zero means no deadline.
	Timeout time.Duration
}

func NewPipeline(deps PipelineDependencies) *Pipeline {
	mode := deps.Mode
	if mode == "" {
		mode = ModeStaged
	}
	return &Pipeline{
		client:  deps.Client,
		mode:    mode,
		timeout: deps.Timeout,
	}
}

// Run classifies one non-empty message and always returns a fully populated
// result; every stage has a guaranteed fallback, so no error is returned.
// Callers are responsible for short-circuiting empty messages to the
// unclassified state without invoking the pipeline.
func (p *Pipeline) Run(ctx context.Context, message string) domain.Classification {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	started := time.Now()

	if p.mode == ModeCombined {
		result := p.client.ClassifyCombined(ctx, message)
		log.Debug().
			Str("run_id", runID).
			Str("category", string(result.Category)).
			Dur("elapsed", time.Since(started)).
			Msg("Combined classification completed")
		return result
	}

	var result domain.Classification
	state := StatePending

	result.Category = p.client.Categorize(ctx, message)
	state = StateCategorized
	log.Debug().Str("run_id", runID).Str("state", string(state)).Str("category", string(result.Category)).Msg("Pipeline advanced")

	result.Confidence = p.client.ScoreConfidence(ctx, message, result.Category)
	state = StateScored
	log.Debug().Str("run_id", runID).Str("state", string(state)).Float64("confidence", result.Confidence).Msg("Pipeline advanced")

	result.Response, result.Action = p.client.GenerateResponse(ctx, message, result.Category, result.Confidence)
	state = StateResponded
	log.Debug().
		Str("run_id", runID).
		Str("state", string(state)).
		Str("action", string(result.Action)).
		Dur("elapsed", time.Since(started)).
		Msg("Pipeline completed")

	return result
}

// Mode reports the configured pipeline variant.
func (p *Pipeline) Mode() Mode {
	return p.mode
}
