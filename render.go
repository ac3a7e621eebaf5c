package thunderbolt

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/indrastratagem/thunderbolt/logger"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus renders cmp into a buffer and writes it with the given status.
// Nothing is written when rendering fails, so the error handler can still
// send its own page.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		logger.Get().Error().Err(err).Str("path", c.Request().URL.Path).Msg("render failed")
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}
