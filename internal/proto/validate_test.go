package proto

import (
	"errors"
	"strings"
	"testing"
)

func TestValidUserID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abc", true},
		{strings.Repeat("u", 32), true},
		{"ab", false},
		{strings.Repeat("u", 33), false},
		{"has space", false},
		{"tab\tinside", false},
		{" padded", false},
		{"trailing ", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidUserID(tt.id); got != tt.want {
			t.Errorf("ValidUserID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		pw   string
		want bool
	}{
		{"pass", true},
		{"12345678", true},
		{"abc", false},
		{"123456789", false},
		{"pa ss", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPassword(tt.pw); got != tt.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", tt.pw, got, tt.want)
		}
	}
}

func TestValidMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"x", true},
		{strings.Repeat("m", 256), true},
		{"", false},
		{strings.Repeat("m", 257), false},
		// Bounds are counted in characters, not bytes.
		{strings.Repeat("ы", 256), true},
	}
	for _, tt := range tests {
		if got := ValidMessage(tt.msg); got != tt.want {
			t.Errorf("ValidMessage(len %d) = %v, want %v", len(tt.msg), got, tt.want)
		}
	}
}

func TestValidVersion(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "2": true, "3": false, "": false, "one": false} {
		if got := ValidVersion(v); got != want {
			t.Errorf("ValidVersion(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  interface{ Validate() error }
		ok   bool
	}{
		{"good login", Login{UserID: "alice", Password: "secret1"}, true},
		{"short user", Login{UserID: "al", Password: "secret1"}, false},
		{"long password", Login{UserID: "alice", Password: "toolongpw"}, false},
		{"good newuser", NewUser{UserID: "bob", Password: "pass"}, true},
		{"spaced newuser", NewUser{UserID: "b o b", Password: "pass"}, false},
		{"good sendall", SendAll{Message: "hi"}, true},
		{"empty sendall", SendAll{Message: ""}, false},
		{"good direct", SendDirect{UserID: "bob", Message: "hi"}, true},
		{"bad direct target", SendDirect{UserID: "bo", Message: "hi"}, false},
		{"good connect", Connect{Version: "2"}, true},
		{"bad connect", Connect{Version: "9"}, false},
		{"who", Who{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidField) {
				t.Fatalf("expected ErrInvalidField, got %v", err)
			}
		})
	}
}
