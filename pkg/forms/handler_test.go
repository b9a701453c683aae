package forms_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Ramsey-B/marigold/pkg/forms"
	"github.com/Ramsey-B/marigold/pkg/httpclient"
	"github.com/Ramsey-B/marigold/pkg/logging"
)

const baseURL = "http://marigold.test"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newHandler(t *testing.T, form forms.Form) *forms.Handler {
	t.Helper()
	client := httpclient.NewClient(httpclient.DefaultConfig(), logging.Nop())
	httpmock.ActivateNonDefault(client.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return forms.NewHandler(form, baseURL+"/", client, &forms.Region{}, logging.Nop())
}

func TestQuery(t *testing.T) {
	query := forms.MatchmakingForm.Query(map[string]string{
		"occupation":  "  Film actor ",
		"birth_place": "",
		"age_range":   "30-40",
		"children":    "3+",
		"unknown":     "ignored",
	})
	assert.Equal(t, "occupation=Film%20actor&age_range=30-40&children=3%2B", query)

	assert.Empty(t, forms.MatchmakingForm.Query(map[string]string{"occupation": "   "}))
	assert.Equal(t, "celebrity_name=O%27Brien%20%26%20Co", forms.RelationshipForm.Query(map[string]string{"celebrity_name": "O'Brien & Co"}))
}

func TestLookup(t *testing.T) {
	f, ok := forms.Lookup("relationships")
	require.True(t, ok)
	assert.Equal(t, "/relationships", f.Endpoint)

	_, ok = forms.Lookup("nope")
	assert.False(t, ok)
}

func TestSubmit_EmptyFormIssuesNoRequest(t *testing.T) {
	h := newHandler(t, forms.AttributeForm)

	err := h.Submit(context.Background(), map[string]string{"birthYear": " ", "occupation": ""})
	assert.ErrorIs(t, err, forms.ErrValidation)
	assert.ErrorContains(t, err, forms.AttributeForm.ValidationMessage)
	assert.Zero(t, httpmock.GetTotalCallCount())
	assert.False(t, h.Region().Visible())
	assert.Empty(t, h.Region().Content())
}

func TestSubmit_InjectsBody(t *testing.T) {
	h := newHandler(t, forms.MatchmakingForm)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/matchmaking",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "3+", req.URL.Query().Get("children"))
			assert.Equal(t, "matchmaking", req.Header.Get("X-Form"))
			return httpmock.NewStringResponse(http.StatusOK, "<p>John Smith</p>"), nil
		})

	require.NoError(t, h.Submit(context.Background(), map[string]string{"children": "3+"}))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.True(t, h.Region().Visible())
	assert.Equal(t, "<p>John Smith</p>", h.Region().Content())
}

func TestSubmit_ErrorStatusBodyIsStillInjected(t *testing.T) {
	h := newHandler(t, forms.NameForm)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/search",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "<div class='error-message'><p>down</p></div>"))

	require.NoError(t, h.Submit(context.Background(), map[string]string{"search": "Smith"}))
	assert.Equal(t, "<div class='error-message'><p>down</p></div>", h.Region().Content())
}

func TestSubmit_TransportFailure(t *testing.T) {
	h := newHandler(t, forms.NameForm)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/search",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	err := h.Submit(context.Background(), map[string]string{"search": "Smith"})
	assert.ErrorIs(t, err, forms.ErrTransport)
	assert.True(t, h.Region().Visible())
	assert.Equal(t, forms.TransportFailureMessage, h.Region().Content())
}

func TestSubmit_EmptyRelationshipBody(t *testing.T) {
	h := newHandler(t, forms.RelationshipForm)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/relationships",
		httpmock.NewStringResponder(http.StatusOK, ""))

	require.NoError(t, h.Submit(context.Background(), map[string]string{"celebrity_name": "Nobody"}))
	assert.Equal(t, forms.NoRelationshipsMessage, h.Region().Content())
}

func TestSubmit_EmptyBodyOnOtherForms(t *testing.T) {
	h := newHandler(t, forms.NameForm)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/search",
		httpmock.NewStringResponder(http.StatusOK, ""))

	require.NoError(t, h.Submit(context.Background(), map[string]string{"search": "x"}))
	assert.True(t, h.Region().Visible())
	assert.Empty(t, h.Region().Content())
}

func TestSubmit_ConcurrentSubmissionsLastWins(t *testing.T) {
	h := newHandler(t, forms.NameForm)
	httpmock.RegisterResponder(http.MethodGet, baseURL+"/search",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewStringResponse(http.StatusOK, "<p>"+req.URL.Query().Get("search")+"</p>"), nil
		})

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, h.Submit(context.Background(), map[string]string{"search": name}))
		}(name)
	}
	wg.Wait()

	assert.Contains(t, []string{"<p>a</p>", "<p>b</p>", "<p>c</p>", "<p>d</p>"}, h.Region().Content())
	assert.Equal(t, 4, httpmock.GetTotalCallCount())
}
