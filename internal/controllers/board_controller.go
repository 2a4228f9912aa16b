package controllers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/triagegrid/triagegrid/internal/board"
	"github.com/triagegrid/triagegrid/pkg/domain"
)

// BoardController handles the grid's HTTP surface: row listing and
// mutations, plus the server-sent notification stream.
type BoardController struct {
	boardService *board.Service
}

type BoardControllerDependencies struct {
	BoardService *board.Service
}

func NewBoardController(deps BoardControllerDependencies) *BoardController {
	return &BoardController{
		boardService: deps.BoardService,
	}
}

// RowView is the rendering projection of a row. The store stays the source
// of truth; the view adds only derived presentation fields.
type RowView struct {
	ID              string   `json:"id"`
	Message         string   `json:"message"`
	Category        string   `json:"category"`
	Confidence      *float64 `json:"confidence"`
	ConfidenceLabel string   `json:"confidenceLabel"`
	Response        string   `json:"response"`
	Action          string   `json:"action"`
	Status          string   `json:"status"`
}

func toRowView(row domain.Row) RowView {
	view := RowView{
		ID:       row.ID,
		Message:  row.Message,
		Category: string(row.Category),
		Response: row.Response,
		Action:   string(row.Action),
		Status:   string(row.Status()),
	}
	if row.Confidence != nil {
		view.Confidence = row.Confidence
		view.ConfidenceLabel = fmt.Sprintf("%.0f%%", *row.Confidence)
	}
	return view
}

func toRowViews(rows []domain.Row) []RowView {
	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toRowView(row))
	}
	return views
}

// ListRows returns all rows in order.
func (c *BoardController) ListRows(ctx fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"rows": toRowViews(c.boardService.ListRows())})
}

// AddRow appends one blank row.
func (c *BoardController) AddRow(ctx fiber.Ctx) error {
	row := c.boardService.AddRow()
	return ctx.Status(fiber.StatusCreated).JSON(toRowView(row))
}

// ClearRows resets every row, preserving the row count.
func (c *BoardController) ClearRows(ctx fiber.Ctx) error {
	rows := c.boardService.ClearAll()
	return ctx.JSON(fiber.Map{"rows": toRowViews(rows)})
}

type updateMessageRequest struct {
	Message string `json:"message"`
}

// UpdateMessage handles an edit to a row's message cell and returns the
// row after classification (or after reset, for an empty message).
func (c *BoardController) UpdateMessage(ctx fiber.Ctx) error {
	rowID := ctx.Params("rowID")

	var req updateMessageRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	row, err := c.boardService.UpdateMessage(ctx.RequestCtx(), rowID, req.Message)
	if err != nil {
		if errors.Is(err, board.ErrRowNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Row not found")
		}
		log.Error().Err(err).Str("row_id", rowID).Msg("Failed to update message")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update message")
	}

	return ctx.JSON(toRowView(row))
}

const keepAliveInterval = 15 * time.Second

// Events streams lifecycle notifications to the UI as server-sent events.
func (c *BoardController) Events(ctx fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	reqCtx := ctx.RequestCtx()
	events := c.boardService.Subscribe(reqCtx)

	return ctx.SendStreamWriter(func(w *bufio.Writer) {
		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					log.Error().Err(err).Msg("Failed to marshal notification event")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}
