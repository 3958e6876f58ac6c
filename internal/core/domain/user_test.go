package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"h@example.com", "h@example.com", true},
		{"  H@Example.COM  ", "h@example.com", true},
		{"not-an-email", "", false},
		{"", "", false},
		{"Harry <h@example.com>", "", false},
		{"h@", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeEmail(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("NormalizeEmail(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
			}
			continue
		}
		if !IsValidation(err) {
			t.Fatalf("NormalizeEmail(%q): expected validation error, got %v", tc.in, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"testpass", "abcdefg", "  spaced7  "}
	for _, p := range valid {
		if err := ValidatePassword(p); err != nil {
			t.Fatalf("ValidatePassword(%q) returned error: %v", p, err)
		}
	}

	invalid := []string{"", "short", "abc   ", "password", "MyPassword1", "PASSWORD999"}
	for _, p := range invalid {
		if !IsValidation(ValidatePassword(p)) {
			t.Fatalf("ValidatePassword(%q): expected validation error", p)
		}
	}
}

func TestUser_JSONRedaction(t *testing.T) {
	u := User{
		ID:           "user_1",
		Name:         "Harry",
		Email:        "h@example.com",
		PasswordHash: "$2a$10$secret",
		Age:          30,
		Avatar:       []byte{1, 2, 3},
		Tokens:       []string{"tok-a", "tok-b"},
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	body := string(data)
	for _, leak := range []string{"secret", "tok-a", "Tokens", "Avatar", "PasswordHash"} {
		if strings.Contains(body, leak) {
			t.Fatalf("sensitive material %q leaked: %s", leak, body)
		}
	}
	for _, want := range []string{`"name":"Harry"`, `"email":"h@example.com"`, `"age":30`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in output: %s", want, body)
		}
	}
}
