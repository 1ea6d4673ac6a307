package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"robinhood/internal/request"
)

const defaultTimeout = 30 * time.Second

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Response struct {
	StatusCode int
	Body       []byte
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("robinhood error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("robinhood error %d: %s", e.StatusCode, e.Body)
}

type Transport struct {
	client Doer
	calls  *CallLog
}

type Option func(*Transport)

func WithHTTPClient(client Doer) Option {
	return func(t *Transport) {
		t.client = client
	}
}

func WithCallLog(calls *CallLog) Option {
	return func(t *Transport) {
		t.calls = calls
	}
}

func New(opts ...Option) *Transport {
	t := &Transport{
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do sends the descriptor and returns the raw response. Authenticated
// descriptors without an Authorization header fail before anything is sent.
func (t *Transport) Do(ctx context.Context, d *request.Descriptor) (*Response, error) {
	if d.RequiresAuth() && !d.HasHeader("Authorization") {
		return nil, request.ErrNotAuthenticated
	}

	httpReq, err := build(ctx, d)
	if err != nil {
		return nil, err
	}

	call := Call{
		Timestamp: time.Now().UTC(),
		Verb:      string(d.Verb()),
		URL:       httpReq.URL.String(),
		Shape:     string(d.Shape()),
	}
	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		call.finish(start, nil, err)
		t.record(call)
		slog.Error("request failed", "verb", call.Verb, "url", call.URL, "error", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		call.finish(start, resp, err)
		t.record(call)
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Detail:     errorDetail(body),
			Body:       string(body),
		}
		call.finish(start, resp, apiErr)
		t.record(call)
		slog.Warn("request rejected", "verb", call.Verb, "url", call.URL, "status", resp.StatusCode, "detail", apiErr.Detail, "request_id", call.RequestID)
		return nil, apiErr
	}

	call.finish(start, resp, nil)
	t.record(call)
	slog.Debug("request complete", "verb", call.Verb, "url", call.URL, "status", resp.StatusCode, "duration_ms", call.DurationMS)
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (t *Transport) record(call Call) {
	if t.calls != nil {
		t.calls.Append(call)
	}
}

// build renders the descriptor into an *http.Request. POST and PUT without an
// explicit body carry their parameters as a form body against the base URL.
func build(ctx context.Context, d *request.Descriptor) (*http.Request, error) {
	target, err := d.RenderURL()
	if err != nil {
		return nil, err
	}
	body := d.Body()
	if d.Verb().CarriesForm() && body == "" {
		target = d.BaseURL()
		body = d.RenderFormBody()
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(d.Verb()), target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != "" {
		httpReq.Header.Set("Content-Type", d.ContentType())
	}
	seen := make(map[string]bool)
	for _, h := range d.HeaderParameters() {
		key := http.CanonicalHeaderKey(h.Key)
		if !seen[key] {
			httpReq.Header.Del(key)
			seen[key] = true
		}
		httpReq.Header.Add(key, h.Value)
	}
	return httpReq, nil
}

func errorDetail(body []byte) string {
	var payload struct {
		Detail         string   `json:"detail"`
		Error          string   `json:"error"`
		NonFieldErrors []string `json:"non_field_errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Detail != "":
		return payload.Detail
	case payload.Error != "":
		return payload.Error
	case len(payload.NonFieldErrors) > 0:
		return strings.Join(payload.NonFieldErrors, "; ")
	}
	return ""
}
