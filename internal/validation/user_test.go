package validation

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		ok       bool
	}{
		{name: "valid simple", username: "writer", ok: true},
		{name: "valid with digits", username: "writer42", ok: true},
		{name: "valid with separators", username: "the_quiet-one", ok: true},
		{name: "minimum length", username: "abc", ok: true},
		{name: "too short", username: "ab", ok: false},
		{name: "maximum length", username: strings.Repeat("a", 30), ok: true},
		{name: "too long", username: strings.Repeat("a", 31), ok: false},
		{name: "space", username: "two words", ok: false},
		{name: "symbol", username: "who?me", ok: false},
		{name: "dot", username: "a.b.c", ok: false},
		{name: "leading underscore", username: "_writer", ok: false},
		{name: "trailing hyphen", username: "writer-", ok: false},
		{name: "reserved me", username: "me", ok: false},
		{name: "reserved posts", username: "posts", ok: false},
		{name: "reserved profiles", username: "profiles", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.ok && err != nil {
				t.Fatalf("expected valid username, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid username, got nil error")
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		ok    bool
	}{
		{name: "valid plain", email: "writer@example.com", ok: true},
		{name: "valid plus tag", email: "writer+blog@example.com", ok: true},
		{name: "valid subdomain", email: "a@mail.example.co.uk", ok: true},
		{name: "missing at", email: "writer.example.com", ok: false},
		{name: "missing tld", email: "writer@example", ok: false},
		{name: "bare at", email: "@example.com", ok: false},
		{name: "trailing at", email: "writer@", ok: false},
		{name: "spaces", email: "wr iter@example.com", ok: false},
		{name: "too long", email: strings.Repeat("a", 250) + "@example.com", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEmail(tc.email)
			if tc.ok && err != nil {
				t.Fatalf("expected valid email, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid email, got nil error")
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "valid", password: "longenough1", ok: true},
		{name: "valid with symbols", password: "c0rrect-horse!", ok: true},
		{name: "minimum length", password: "abcdefg1", ok: true},
		{name: "too short", password: "abcd123", ok: false},
		{name: "too long", password: strings.Repeat("a1", 65), ok: false},
		{name: "digits only", password: "1234567890", ok: false},
		{name: "letters only", password: "abcdefghij", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok && err != nil {
				t.Fatalf("expected valid password, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid password, got nil error")
			}
		})
	}
}
