// Package dispatch forwards user messages to the upstream AI endpoints.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrInvalidModel is returned when the model identifier is not one of
// the recognized dispatch keys.
var ErrInvalidModel = errors.New("invalid model selection")

// UpstreamError indicates the upstream call failed, either with a
// non-success HTTP status or a transport error.
type UpstreamError struct {
	Model  string
	Status int // 0 when the request never completed
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream call for model %s failed: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("upstream call for model %s failed with status %d", e.Model, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Dispatcher maps model identifiers to upstream endpoint templates and
// issues the outbound calls. No retries, no circuit breaking; a slow
// upstream is bounded only by the caller's context.
type Dispatcher struct {
	endpoints map[string]string
	client    *http.Client
}

// New creates a Dispatcher over the given model -> endpoint-template
// table. A nil client falls back to http.DefaultClient.
func New(endpoints map[string]string, client *http.Client) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Dispatcher{endpoints: endpoints, client: client}
}

// Dispatch issues a single GET with the message url-encoded into the
// endpoint's query string and returns the raw JSON body.
func (d *Dispatcher) Dispatch(ctx context.Context, model, message string) (json.RawMessage, error) {
	endpoint, ok := d.endpoints[model]
	if !ok {
		return nil, ErrInvalidModel
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+url.QueryEscape(message), nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Model: model, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Model: model, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Model: model, Err: fmt.Errorf("read upstream body: %w", err)}
	}

	return json.RawMessage(body), nil
}
