package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies completion failures.
type Kind string

const (
	KindAuthFailure       Kind = "auth_failure"
	KindRateLimited       Kind = "rate_limited"
	KindTimeout           Kind = "timeout"
	KindMalformedResponse Kind = "malformed_response"
	KindUnknown           Kind = "unknown"
)

// CompletionError is returned by every Client implementation on failure.
type CompletionError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the submitter.
func (e *CompletionError) UserMessage() string {
	switch e.Kind {
	case KindAuthFailure:
		return "The AI service rejected our credentials. Please try again later."
	case KindRateLimited:
		return "The AI service is busy right now. Please try again in a minute."
	case KindTimeout:
		return "The AI service took too long to respond. Please try again."
	case KindMalformedResponse:
		return "The AI service returned an unexpected response. Please try again."
	default:
		return "Something went wrong while generating your profile. Please try again."
	}
}

// KindOf returns the kind of a CompletionError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var cerr *CompletionError
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return KindUnknown
}

// KindForStatus maps a provider HTTP status to a failure kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthFailure
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindUnknown
	}
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Wrap converts err into a CompletionError, keeping an existing kind.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var cerr *CompletionError
	if errors.As(err, &cerr) {
		return err
	}
	if IsTimeout(err) {
		return &CompletionError{Kind: KindTimeout, Message: message, Err: err}
	}
	return &CompletionError{Kind: KindUnknown, Message: message, Err: err}
}
