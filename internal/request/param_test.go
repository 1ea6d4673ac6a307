package request

import (
	"errors"
	"strings"
	"testing"
)

func TestJoinList(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{in: []string{"abc123", "def456"}, want: "abc123,def456"},
		{in: []string{"abc123"}, want: "abc123"},
		{in: []string{" abc 123 ", "", "def456\t"}, want: "abc123,def456"},
		{in: nil, want: ""},
	}

	for _, tt := range tests {
		got := JoinList(tt.in...)
		if got != tt.want {
			t.Errorf("JoinList(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if strings.ContainsAny(got, "[] \t\n") {
			t.Errorf("JoinList(%q) contains brackets or whitespace: %q", tt.in, got)
		}
		if strings.Contains(got, ",,") {
			t.Errorf("JoinList(%q) contains an empty element: %q", tt.in, got)
		}
	}
}

func TestParseVerb(t *testing.T) {
	for _, s := range []string{"GET", "post", " Put ", "DELETE", "head", "OPTIONS", "trace"} {
		v, err := ParseVerb(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if !v.Valid() {
			t.Fatalf("expected %q to be valid", v)
		}
	}

	if _, err := ParseVerb("PATCH"); !errors.Is(err, ErrInvalidVerb) {
		t.Fatalf("expected ErrInvalidVerb, got %v", err)
	}
}

func TestQueryParamString(t *testing.T) {
	if got := (QueryParam{Key: "ids", Value: "a,b"}).String(); got != "ids=a,b" {
		t.Fatalf("unexpected rendering %q", got)
	}
}
