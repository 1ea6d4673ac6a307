// Package endpoint defines one constructor per Robinhood API operation. Each
// constructor returns a finalized request.Descriptor ready for the transport.
package endpoint

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"robinhood/internal/request"
)

const DefaultBaseURL = "https://api.robinhood.com"

var ErrInvalidArgument = errors.New("invalid argument")

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("urlsafe", func(fl validator.FieldLevel) bool {
		return urlSafe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// API is the handle every constructor receives: where to send requests and
// where bearer tokens come from.
type API struct {
	BaseURL string
	Tokens  request.TokenSource
}

func (a API) url(path ...string) string {
	base := strings.TrimRight(a.BaseURL, "/")
	if len(path) == 0 {
		return base + "/"
	}
	return base + "/" + strings.Join(path, "/") + "/"
}

func (a API) authenticated(d *request.Descriptor) error {
	d.RequireAuth()
	return d.AddAuthHeader(a.Tokens)
}

func checkArgs(args any) error {
	if err := validate.Struct(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

type symbolArgs struct {
	Symbol string `validate:"required,urlsafe"`
}

type symbolListArgs struct {
	Symbols []string `validate:"required,min=1,dive,required,urlsafe"`
}

func normalizeSymbols(symbols []string) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}

func finalize(d *request.Descriptor) (*request.Descriptor, error) {
	if err := d.Finalize(); err != nil {
		return nil, err
	}
	return d, nil
}
