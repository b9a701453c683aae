// Package web serves the search page and its static assets from the binary.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/marigold/pkg/forms"
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type pageData struct {
	Title string
	Forms []forms.Form
}

// RenderIndex renders the page with one section per form in forms.All.
func RenderIndex(title string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse index template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{Title: title, Forms: forms.All}); err != nil {
		return "", fmt.Errorf("failed to render index: %w", err)
	}
	return buf.String(), nil
}

// Register serves GET / and /static/*. The page is rendered once.
func Register(e *echo.Echo, title string) error {
	page, err := RenderIndex(title)
	if err != nil {
		return err
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}

	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	e.StaticFS("/static", static)
	return nil
}
