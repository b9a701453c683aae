package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/marigold/pkg/httpclient"
	"github.com/Ramsey-B/marigold/pkg/metrics"
)

var (
	// ErrValidation means every recognized field was empty. No request was made.
	ErrValidation = errors.New("form validation failed")
	// ErrTransport means the request could not be completed.
	ErrTransport = errors.New("transport failure")
)

// Region is the results area a form writes into. It is hidden until the
// first completed submission.
type Region struct {
	mu      sync.RWMutex
	content string
	visible bool
}

// Replace sets the region content and marks it shown
func (r *Region) Replace(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
	r.visible = true
}

// Content returns the current region content
func (r *Region) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Visible reports whether the region has been shown
func (r *Region) Visible() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible
}

// Handler submits one form against a running server.
type Handler struct {
	form    Form
	baseURL string
	client  *httpclient.Client
	region  *Region
	logger  ectologger.Logger
}

// NewHandler creates a form handler that submits to baseURL and writes into region
func NewHandler(form Form, baseURL string, client *httpclient.Client, region *Region, logger ectologger.Logger) *Handler {
	return &Handler{
		form:    form,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		region:  region,
		logger:  logger,
	}
}

// Region returns the results region the handler writes into
func (h *Handler) Region() *Region {
	return h.region
}

// Submit validates values, issues one GET and replaces the region with the
// raw response body, whatever its status. On ErrValidation the region is
// untouched; on ErrTransport it holds TransportFailureMessage.
func (h *Handler) Submit(ctx context.Context, values map[string]string) error {
	query := h.form.Query(values)
	if query == "" {
		metrics.RecordFormSubmission(h.form.Name, "invalid")
		return fmt.Errorf("%w: %s", ErrValidation, h.form.ValidationMessage)
	}

	target := h.baseURL + h.form.Endpoint + "?" + query
	resp, err := h.client.Get(ctx, target, map[string]string{"X-Form": h.form.Name})
	if err != nil {
		metrics.RecordFormSubmission(h.form.Name, "transport_failure")
		h.logger.WithContext(ctx).WithError(err).WithField("form", h.form.Name).Warn("form submission failed")
		h.region.Replace(TransportFailureMessage)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	body := string(resp.Body)
	if body == "" && h.form.EmptyMessage != "" {
		body = h.form.EmptyMessage
	}

	metrics.RecordFormSubmission(h.form.Name, "completed")
	h.region.Replace(body)
	return nil
}
