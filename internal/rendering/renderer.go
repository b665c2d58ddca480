package rendering

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"maragu.dev/gomponents"
)

// Renderer renders gomponents nodes for echo's c.Render. The component is
// passed as data; the template name is ignored.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// RenderComponent renders node to a byte slice. Useful for htmx fragments.
func (r *Renderer) RenderComponent(node gomponents.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// Render implements the echo.Renderer interface.
func (r *Renderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	node, ok := data.(gomponents.Node)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("unsupported component type: %T", data))
	}

	if c != nil && c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}

	return node.Render(w)
}
