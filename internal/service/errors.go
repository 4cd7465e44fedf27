package service

import (
	"errors"
	"fmt"

	"github.com/maheshrc27/multipost-api/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrNotConnected     = errors.New("platform not connected")
	ErrMediaDisabled    = errors.New("media storage is not configured")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// ConfigurationError means provider credentials are unset on the server.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s OAuth not configured", e.Provider)
}

// ValidationError is a malformed request; it never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// PreconditionError is a publish request the adapter refuses before any HTTP call.
type PreconditionError struct {
	Platform models.Platform
	Message  string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// UpstreamError is a non-2xx answer from a platform API.
type UpstreamError struct {
	Platform models.Platform
	Op       string
	Status   int
	Body     string
	// Message is the Graph API error message when the body carries one.
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s failed with status %d: %s", e.Platform, e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s failed with status %d: %s", e.Platform, e.Op, e.Status, e.Body)
}

// TransportError is a network-level failure talking to a platform API.
type TransportError struct {
	Platform models.Platform
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Platform, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConfigurationError(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}

func IsPreconditionError(err error) bool {
	var p *PreconditionError
	return errors.As(err, &p)
}

// IsUpstreamFailure reports whether err came from talking to a platform,
// either a bad status or a transport failure.
func IsUpstreamFailure(err error) bool {
	var u *UpstreamError
	var t *TransportError
	return errors.As(err, &u) || errors.As(err, &t)
}

// UpstreamDetails returns the upstream response body when err carries one.
func UpstreamDetails(err error) string {
	var u *UpstreamError
	if errors.As(err, &u) {
		return u.Body
	}
	var t *TransportError
	if errors.As(err, &t) {
		return t.Err.Error()
	}
	return err.Error()
}

// UpstreamOp names the step that failed, or "" when err is not an upstream failure.
func UpstreamOp(err error) string {
	var u *UpstreamError
	if errors.As(err, &u) {
		return u.Op
	}
	var t *TransportError
	if errors.As(err, &t) {
		return t.Op
	}
	return ""
}
