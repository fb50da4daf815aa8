// Package errors provides custom error types for the privateai client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoEngine        = errors.New("no recognition engine available")
)

// AuthError represents a missing or invalid credential. It is raised
// before any network call is made.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: API key is missing or empty"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthRequired {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// ServerError represents a non-200 response from the generation
// endpoint. Body carries the raw response text for diagnostics.
type ServerError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("server error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("server error [%d] at %s", e.StatusCode, e.Endpoint)
}

// NewServerError creates a new ServerError
func NewServerError(statusCode int, endpoint, body string) *ServerError {
	return &ServerError{StatusCode: statusCode, Endpoint: endpoint, Body: body}
}

// ParseError represents a response whose shape is missing the expected
// candidate/part fields.
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// UnavailableError represents a transcription engine that is absent
// for the active locale.
type UnavailableError struct {
	Locale string
}

func (e *UnavailableError) Error() string {
	if e.Locale == "" {
		return "transcription unavailable: no recognition engine"
	}
	return fmt.Sprintf("transcription unavailable: no recognition engine for locale %s", e.Locale)
}

// Is allows comparison with sentinel errors
func (e *UnavailableError) Is(target error) bool {
	if target == ErrNoEngine {
		return true
	}
	_, ok := target.(*UnavailableError)
	return ok
}

// NewUnavailableError creates a new UnavailableError
func NewUnavailableError(locale string) *UnavailableError {
	return &UnavailableError{Locale: locale}
}

// OpenError represents a document that cannot be opened for extraction.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot open document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot open document %s", e.Path)
}

func (e *OpenError) Unwrap() error { return e.Err }

// NewOpenError creates a new OpenError
func NewOpenError(path string, err error) *OpenError {
	return &OpenError{Path: path, Err: err}
}

// NetworkError wraps a transport-level failure (timeout, DNS, TLS).
// The underlying error passes through untouched via Unwrap.
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// IsAuthError reports whether err classifies as an authentication
// failure. The orchestrator uses this to pick the user-facing message.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	return errors.As(err, &authErr) || errors.Is(err, ErrAuthRequired)
}
