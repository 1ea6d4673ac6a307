package endpoint

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/gorilla/schema"

	"robinhood/internal/model"
	"robinhood/internal/request"
)

// ClientID is the oauth2 client id of the Robinhood web application.
const ClientID = "c82SH0WZOsabOXGP2sxqcj34FxkvfnWRZBKlBjFS"

const defaultTokenTTL = 24 * time.Hour

var formEncoder = schema.NewEncoder()

type Credentials struct {
	Username    string
	Password    string
	MFACode     string
	DeviceToken string
	TTL         time.Duration
}

type loginForm struct {
	GrantType   string `schema:"grant_type"`
	Scope       string `schema:"scope"`
	ClientID    string `schema:"client_id"`
	ExpiresIn   int    `schema:"expires_in"`
	DeviceToken string `schema:"device_token" validate:"required,uuid"`
	Username    string `schema:"username" validate:"required"`
	Password    string `schema:"password" validate:"required"`
	MFACode     string `schema:"mfa_code,omitempty" validate:"omitempty,numeric"`
}

type revokeForm struct {
	ClientID string `schema:"client_id"`
	Token    string `schema:"token" validate:"required"`
}

// Login builds POST /oauth2/token/. The form travels in the request body.
func Login(api API, creds Credentials) (*request.Descriptor, error) {
	ttl := creds.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	form := loginForm{
		GrantType:   "password",
		Scope:       "internal",
		ClientID:    ClientID,
		ExpiresIn:   int(ttl / time.Second),
		DeviceToken: creds.DeviceToken,
		Username:    creds.Username,
		Password:    creds.Password,
		MFACode:     creds.MFACode,
	}
	if err := checkArgs(form); err != nil {
		return nil, err
	}

	d := request.New(api.url("oauth2", "token"))
	if err := addForm(d, form); err != nil {
		return nil, err
	}
	d.SetVerb(request.POST)
	d.SetContentType(request.ContentTypeForm)
	d.SetShape(model.ShapeToken)
	return finalize(d)
}

// Logout builds POST /oauth2/revoke_token/ for the given access token.
func Logout(api API, token string) (*request.Descriptor, error) {
	form := revokeForm{ClientID: ClientID, Token: token}
	if err := checkArgs(form); err != nil {
		return nil, err
	}

	d := request.New(api.url("oauth2", "revoke_token"))
	if err := addForm(d, form); err != nil {
		return nil, err
	}
	d.SetVerb(request.POST)
	d.SetContentType(request.ContentTypeForm)
	d.SetShape(model.ShapeNone)
	return finalize(d)
}

// addForm appends the encoded fields of form as parameters, sorted by key.
func addForm(d *request.Descriptor, form any) error {
	values := url.Values{}
	if err := formEncoder.Encode(form, values); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			d.AddQueryParameter(url.QueryEscape(k), url.QueryEscape(v))
		}
	}
	return nil
}
