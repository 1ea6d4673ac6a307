// Package model declares the response shapes returned by the Robinhood API
// and decodes raw bodies into them by shape tag.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"robinhood/internal/request"
)

const (
	ShapeNone              request.Shape = "none"
	ShapeTickerFundamental request.Shape = "ticker fundamental"
	ShapeFundamentalList   request.Shape = "ticker fundamental list"
	ShapeRatingList        request.Shape = "rating element list"
	ShapeInstrumentList    request.Shape = "instrument list"
	ShapeQuote             request.Shape = "quote"
	ShapeQuoteList         request.Shape = "quote list"
	ShapeAccountList       request.Shape = "account list"
	ShapePositionList      request.Shape = "position list"
	ShapeUser              request.Shape = "user"
	ShapeToken             request.Shape = "token"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnknownShape      = errors.New("unknown response shape")
)

var factories = map[request.Shape]func() any{
	ShapeTickerFundamental: func() any { return new(TickerFundamental) },
	ShapeFundamentalList:   func() any { return new(Page[*TickerFundamental]) },
	ShapeRatingList:        func() any { return new(Page[RatingElement]) },
	ShapeInstrumentList:    func() any { return new(Page[Instrument]) },
	ShapeQuote:             func() any { return new(Quote) },
	ShapeQuoteList:         func() any { return new(Page[*Quote]) },
	ShapeAccountList:       func() any { return new(Page[Account]) },
	ShapePositionList:      func() any { return new(Page[Position]) },
	ShapeUser:              func() any { return new(User) },
	ShapeToken:             func() any { return new(Token) },
}

// Decode unmarshals body into a new value of the type registered for shape.
// ShapeNone yields nil without looking at the body.
func Decode(shape request.Shape, body []byte) (any, error) {
	if shape == ShapeNone {
		return nil, nil
	}
	factory, ok := factories[shape]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body for %q", ErrMalformedResponse, shape)
	}
	out := factory()
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", ErrMalformedResponse, shape, err)
	}
	return out, nil
}

// DecodeAs decodes body by shape and asserts the result is a *T.
func DecodeAs[T any](shape request.Shape, body []byte) (*T, error) {
	v, err := Decode(shape, body)
	if err != nil {
		return nil, err
	}
	out, ok := v.(*T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: shape %q does not decode to %T", ErrUnknownShape, shape, zero)
	}
	return out, nil
}
