package echoweb

import (
	"embed"
	"io"
	"io/fs"
	"strconv"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed static
var staticFS embed.FS

// templRenderer lets handlers hand templ components to Context.Render, which
// buffers the page before writing the status. The name only labels errors.
type templRenderer struct{}

var _ echo.Renderer = templRenderer{}

func (templRenderer) Render(w io.Writer, name string, data interface{}, ctx echo.Context) error {
	view, ok := data.(templ.Component)
	if !ok {
		return errors.Errorf("rendering %s: %T is not a templ component", name, data)
	}
	return errors.Wrapf(view.Render(ctx.Request().Context(), w), "rendering %s", name)
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
