package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/marigold/pkg/forms"
	"github.com/Ramsey-B/marigold/pkg/web"
)

func TestRenderIndex(t *testing.T) {
	page, err := web.RenderIndex("Celebrity Finder")
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Celebrity Finder</title>")
	for _, f := range forms.All {
		assert.Contains(t, page, `data-endpoint="`+f.Endpoint+`"`)
		assert.Contains(t, page, `id="`+f.Name+`-results"`)
		for _, field := range f.Fields {
			assert.Contains(t, page, `name="`+field.Name+`"`)
		}
	}
	assert.Equal(t, 1, strings.Count(page, "data-empty-message="))
	assert.Contains(t, page, `<option value="3&#43;">3&#43;</option>`)
}

func TestRegister(t *testing.T) {
	e := echo.New()
	require.NoError(t, web.Register(e, "Celebrity Finder"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/forms.js")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/forms.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "preventDefault")
	assert.Contains(t, rec.Body.String(), "Error fetching data. Please try again.")
}
