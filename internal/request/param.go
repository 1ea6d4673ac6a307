package request

import (
	"fmt"
	"strings"
)

// QueryParam is a single key/value pair rendered into the query string or form body.
type QueryParam struct {
	Key   string
	Value string
}

func (p QueryParam) String() string {
	return p.Key + "=" + p.Value
}

// Header is a single HTTP header sent with the request.
type Header struct {
	Key   string
	Value string
}

type Verb string

const (
	GET     Verb = "GET"
	POST    Verb = "POST"
	PUT     Verb = "PUT"
	DELETE  Verb = "DELETE"
	HEAD    Verb = "HEAD"
	OPTIONS Verb = "OPTIONS"
	TRACE   Verb = "TRACE"
)

func (v Verb) Valid() bool {
	switch v {
	case GET, POST, PUT, DELETE, HEAD, OPTIONS, TRACE:
		return true
	}
	return false
}

// CarriesForm reports whether parameters travel in the body when no explicit body is set.
func (v Verb) CarriesForm() bool {
	return v == POST || v == PUT
}

func ParseVerb(s string) (Verb, error) {
	v := Verb(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidVerb, s)
	}
	return v, nil
}

// Shape tags the type a response body should be decoded into.
type Shape string

// JoinList renders a list-valued parameter the way the API expects it:
// comma separated, no brackets, no whitespace.
func JoinList(values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.Join(strings.Fields(v), "")
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ",")
}
