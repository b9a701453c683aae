// Package fragments renders the HTML fragments returned by the search
// endpoints. Every interpolated value is escaped by html/template.
package fragments

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	NameResults         = "name_results"
	AttributeResults    = "attribute_results"
	MatchResults        = "match_results"
	RelationshipResults = "relationship_results"
	NoMatches           = "no_matches"
	NoRelationships     = "no_relationships"
	Error               = "error"
)

// ErrorData feeds the error fragment
type ErrorData struct {
	Message   string
	RequestID string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded fragment templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("fragments").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// MustNewRenderer panics when the embedded templates do not parse.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render renders the named fragment. Output is buffered so a failing template
// never leaves a partial fragment in w.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	out, err := r.RenderString(name, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// RenderString renders the named fragment to a string
func (r *Renderer) RenderString(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render fragment %q: %w", name, err)
	}
	return buf.String(), nil
}
