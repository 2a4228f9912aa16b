// Package webui serves the embedded grid front end. The page is a thin
// rendering projection over the REST API; the row store remains the only
// source of truth.
package webui

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

//go:embed index.html
var indexHTML []byte

// Handler serves the grid page.
func Handler(ctx fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Send(indexHTML)
}
