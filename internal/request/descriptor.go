// Package request holds the descriptor every API call is rendered from: base
// URL, verb, ordered query and header parameters, body and the shape the
// response decodes into. A descriptor is built once per call by an endpoint
// constructor and only read afterwards.
package request

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded"

	authorizationHeader = "Authorization"
	redacted            = "<redacted>"
)

// secretParams are query or form keys whose values never appear in String().
var secretParams = map[string]bool{
	"password":      true,
	"token":         true,
	"mfa_code":      true,
	"refresh_token": true,
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMalformedURL     = errors.New("malformed url")
	ErrInvalidVerb      = errors.New("invalid request verb")
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, error)
}

type Descriptor struct {
	baseURL      string
	verb         Verb
	query        []QueryParam
	headers      []Header
	body         string
	shape        Shape
	requiresAuth bool
	contentType  string
}

func New(baseURL string) *Descriptor {
	return &Descriptor{
		baseURL:     baseURL,
		verb:        GET,
		contentType: ContentTypeJSON,
	}
}

func (d *Descriptor) AddQueryParameter(key, value string) {
	d.query = append(d.query, QueryParam{Key: key, Value: value})
}

func (d *Descriptor) AddHeaderParameter(key, value string) {
	d.headers = append(d.headers, Header{Key: key, Value: value})
}

// AddAuthHeader appends "Authorization: Bearer <token>". Nothing is added when
// the source has no token.
func (d *Descriptor) AddAuthHeader(ts TokenSource) error {
	if ts == nil {
		return ErrNotAuthenticated
	}
	token, err := ts.Token()
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if token == "" {
		return ErrNotAuthenticated
	}
	d.AddHeaderParameter(authorizationHeader, "Bearer "+token)
	return nil
}

func (d *Descriptor) RequireAuth() {
	d.requiresAuth = true
}

func (d *Descriptor) SetVerb(v Verb) {
	d.verb = v
}

func (d *Descriptor) SetBody(body string) {
	d.body = body
}

func (d *Descriptor) SetShape(shape Shape) {
	d.shape = shape
}

func (d *Descriptor) SetContentType(contentType string) {
	d.contentType = contentType
}

func (d *Descriptor) BaseURL() string {
	return d.baseURL
}

func (d *Descriptor) Verb() Verb {
	return d.verb
}

func (d *Descriptor) Body() string {
	return d.body
}

func (d *Descriptor) Shape() Shape {
	return d.shape
}

func (d *Descriptor) RequiresAuth() bool {
	return d.requiresAuth
}

func (d *Descriptor) ContentType() string {
	return d.contentType
}

func (d *Descriptor) QueryParameters() []QueryParam {
	out := make([]QueryParam, len(d.query))
	copy(out, d.query)
	return out
}

func (d *Descriptor) HeaderParameters() []Header {
	out := make([]Header, len(d.headers))
	copy(out, d.headers)
	return out
}

// HasHeader reports whether a header with the given key (case-insensitive) was added.
func (d *Descriptor) HasHeader(key string) bool {
	for _, h := range d.headers {
		if strings.EqualFold(h.Key, key) {
			return true
		}
	}
	return false
}

// RenderURL returns the base URL followed by the query parameters in insertion order.
func (d *Descriptor) RenderURL() (string, error) {
	var b strings.Builder
	b.WriteString(d.baseURL)
	sep := byte('?')
	for _, p := range d.query {
		b.WriteByte(sep)
		b.WriteString(p.String())
		sep = '&'
	}
	rendered := b.String()
	if err := checkURL(rendered); err != nil {
		return "", err
	}
	return rendered, nil
}

// RenderFormBody joins the query parameters for use as a request body. Headers
// are never included.
func (d *Descriptor) RenderFormBody() string {
	parts := make([]string, 0, len(d.query))
	for _, p := range d.query {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "&")
}

// Finalize checks that the descriptor can be sent as built. Endpoint
// constructors call it last.
func (d *Descriptor) Finalize() error {
	if !d.verb.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVerb, d.verb)
	}
	if _, err := d.RenderURL(); err != nil {
		return err
	}
	if d.requiresAuth && !d.HasHeader(authorizationHeader) {
		return ErrNotAuthenticated
	}
	return nil
}

func (d *Descriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Base URL: %s\n", d.baseURL)
	fmt.Fprintf(&b, "Verb: %s\n", d.verb)
	b.WriteString("--HTTP Header Parameters--\n")
	for _, h := range d.headers {
		value := h.Value
		if strings.EqualFold(h.Key, authorizationHeader) {
			value = redacted
		}
		fmt.Fprintf(&b, "%s : %s\n", h.Key, value)
	}
	b.WriteString("--Url Parameters--\n")
	for _, p := range d.query {
		value := p.Value
		if secretParams[strings.ToLower(p.Key)] {
			value = redacted
		}
		fmt.Fprintf(&b, "%s : %s\n", p.Key, value)
	}
	return b.String()
}

func checkURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty url", ErrMalformedURL)
	}
	if i := strings.IndexFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}); i >= 0 {
		return fmt.Errorf("%w: invalid character at offset %d in %q", ErrMalformedURL, i, raw)
	}
	// A fragment would cut every parameter after it from the request.
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return fmt.Errorf("%w: fragment at offset %d in %q", ErrMalformedURL, i, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme in %q", ErrMalformedURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrMalformedURL, raw)
	}
	return nil
}
