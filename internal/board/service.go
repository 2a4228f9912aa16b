package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/triagegrid/triagegrid/internal/notify"
	"github.com/triagegrid/triagegrid/internal/store"
	"github.com/triagegrid/triagegrid/pkg/classify"
	"github.com/triagegrid/triagegrid/pkg/domain"
)

// ErrRowNotFound is returned when an edit targets an identifier that does
// not exist in the store.
var ErrRowNotFound = errors.New("row not found")

// Service implements the grid's operations: list, append, clear, and the
// edit-triggers-classification flow. Pipelines for different rows may run
// concurrently; completions are written back by stable row identifier, so
// a result that outlived its row is discarded instead of landing on the
// wrong one.
type Service struct {
	store    *store.RowStore
	pipeline *classify.Pipeline
	hub      *notify.Hub
}

type ServiceDependencies struct {
	Store    *store.RowStore
	Pipeline *classify.Pipeline
	Hub      *notify.Hub
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		store:    deps.Store,
		pipeline: deps.Pipeline,
		hub:      deps.Hub,
	}
}

// ListRows returns a snapshot of all rows in order.
func (s *Service) ListRows() []domain.Row {
	return s.store.List()
}

// AddRow appends one blank row.
func (s *Service) AddRow() domain.Row {
	row := s.store.Append()
	s.hub.Publish(notify.Event{Type: notify.EventRowAdded, RowID: row.ID, Text: "Row added"})
	return row
}

// ClearAll resets every row to the unclassified state without changing the
// row count.
func (s *Service) ClearAll() []domain.Row {
	s.store.ResetAll()
	s.hub.Publish(notify.Event{Type: notify.EventRowsCleared, Text: "All rows cleared"})
	return s.store.List()
}

// UpdateMessage applies an edit to a row's message cell. An empty message is
// not an error: it resets the row's classification fields without invoking
// the pipeline. A non-empty message runs the full pipeline and writes the
// merged result back by identifier.
func (s *Service) UpdateMessage(ctx context.Context, id, message string) (domain.Row, error) {
	row, ok := s.store.Get(id)
	if !ok {
		return domain.Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}

	if message == "" {
		row.Message = ""
		row.Category = ""
		row.Confidence = nil
		row.Response = ""
		row.Action = ""
		s.store.ReplaceByID(id, row)
		return row, nil
	}

	row.Message = message

	s.hub.Publish(notify.Event{Type: notify.EventClassificationStarted, RowID: id, Text: "Classifying message..."})
	// The started notification is always paired with a settled one, on the
	// success and the discard path alike.

	result := s.pipeline.Run(ctx, message)
	row.Apply(result)

	if !s.store.ReplaceByID(id, row) {
		log.Warn().Str("row_id", id).Msg("Row disappeared while classification was in flight, discarding result")
		s.hub.Publish(notify.Event{Type: notify.EventClassificationFailed, RowID: id, Text: "Classification discarded"})
		return row, nil
	}

	log.Info().
		Str("row_id", id).
		Str("category", string(row.Category)).
		Float64("confidence", result.Confidence).
		Str("action", string(row.Action)).
		Msg("Row classified")

	s.hub.Publish(notify.Event{Type: notify.EventClassificationCompleted, RowID: id, Text: "Message classified"})
	return row, nil
}

// Subscribe exposes the notification stream for the events endpoint.
func (s *Service) Subscribe(ctx context.Context) <-chan notify.Event {
	return s.hub.Subscribe(ctx)
}
