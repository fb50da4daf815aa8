package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthErrorIs(t *testing.T) {
	err := NewAuthError("key missing")

	if !errors.Is(err, ErrAuthRequired) {
		t.Error("AuthError does not match ErrAuthRequired")
	}
	if !errors.Is(fmt.Errorf("send failed: %w", err), ErrAuthRequired) {
		t.Error("wrapped AuthError does not match ErrAuthRequired")
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth error", NewAuthError(""), true},
		{"wrapped auth error", fmt.Errorf("x: %w", NewAuthError("bad key")), true},
		{"sentinel", ErrAuthRequired, true},
		{"server error", NewServerError(500, "/generate", "boom"), false},
		{"plain error", errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServerErrorMessage(t *testing.T) {
	err := NewServerError(429, "/v1beta/models/x:generateContent", "quota exceeded")

	msg := err.Error()
	if msg != "server error [429] at /v1beta/models/x:generateContent: quota exceeded" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestParseErrorIs(t *testing.T) {
	err := NewParseError("no candidates", "candidates.0")

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError does not match ErrInvalidResponse")
	}
}

func TestUnavailableErrorIs(t *testing.T) {
	err := NewUnavailableError("pt-BR")

	if !errors.Is(err, ErrNoEngine) {
		t.Error("UnavailableError does not match ErrNoEngine")
	}
	if err.Error() != "transcription unavailable: no recognition engine for locale pt-BR" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestOpenErrorUnwrap(t *testing.T) {
	cause := errors.New("not a pdf")
	err := NewOpenError("/tmp/x.pdf", cause)

	if !errors.Is(err, cause) {
		t.Error("OpenError does not unwrap to its cause")
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewNetworkError("generate", "https://example.com", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError does not unwrap to its cause")
	}
}
