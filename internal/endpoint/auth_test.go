package endpoint

import (
	"errors"
	"strings"
	"testing"
	"time"

	"robinhood/internal/model"
	"robinhood/internal/request"
)

const testDevice = "7f0c1e9a-3f43-4c5e-9a55-0f4a0c7de6a1"

func TestLoginBuildsFormBody(t *testing.T) {
	d, err := Login(API{BaseURL: testBase}, Credentials{
		Username:    "alice@example.com",
		Password:    "p&ss word",
		DeviceToken: testDevice,
		TTL:         time.Hour,
	})
	if err != nil {
		t.Fatalf("build login: %v", err)
	}

	if d.Verb() != request.POST {
		t.Fatalf("expected POST, got %s", d.Verb())
	}
	if d.ContentType() != request.ContentTypeForm {
		t.Fatalf("expected form content type, got %q", d.ContentType())
	}
	if d.Shape() != model.ShapeToken {
		t.Fatalf("unexpected shape %q", d.Shape())
	}
	if d.BaseURL() != "https://api.example.com/oauth2/token/" {
		t.Fatalf("unexpected base url %q", d.BaseURL())
	}

	want := "client_id=" + ClientID +
		"&device_token=" + testDevice +
		"&expires_in=3600" +
		"&grant_type=password" +
		"&password=p%26ss+word" +
		"&scope=internal" +
		"&username=alice%40example.com"
	if got := d.RenderFormBody(); got != want {
		t.Fatalf("unexpected form body\nwant %s\ngot  %s", want, got)
	}
	if strings.Contains(d.RenderFormBody(), "mfa_code") {
		t.Fatal("empty mfa code should be omitted")
	}
}

func TestLoginWithMFA(t *testing.T) {
	d, err := Login(API{BaseURL: testBase}, Credentials{
		Username:    "alice",
		Password:    "secret",
		MFACode:     "123456",
		DeviceToken: testDevice,
	})
	if err != nil {
		t.Fatalf("build login: %v", err)
	}
	body := d.RenderFormBody()
	if !strings.Contains(body, "&mfa_code=123456&") {
		t.Fatalf("expected mfa code in %q", body)
	}
	if !strings.Contains(body, "expires_in=86400") {
		t.Fatalf("expected default ttl in %q", body)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	tests := map[string]Credentials{
		"no username":  {Password: "x", DeviceToken: testDevice},
		"no password":  {Username: "alice", DeviceToken: testDevice},
		"bad device":   {Username: "alice", Password: "x", DeviceToken: "device"},
		"bad mfa code": {Username: "alice", Password: "x", DeviceToken: testDevice, MFACode: "12ab"},
	}
	for name, creds := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Login(API{BaseURL: testBase}, creds); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	d, err := Logout(API{BaseURL: testBase}, "abc.def")
	if err != nil {
		t.Fatalf("build logout: %v", err)
	}
	if got := d.RenderFormBody(); got != "client_id="+ClientID+"&token=abc.def" {
		t.Fatalf("unexpected body %q", got)
	}
	if d.Shape() != model.ShapeNone {
		t.Fatalf("unexpected shape %q", d.Shape())
	}

	if _, err := Logout(API{BaseURL: testBase}, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
