package profiles

import (
	"errors"
	"net/http"

	"profile-backend/internal/llm"
)

// ErrDocumentUnavailable means the submission exists but has no stored PDF.
var ErrDocumentUnavailable = errors.New("document not available")

const renderFailedMessage = "We couldn't build the PDF this time. Your profile is shown above; copy it or try again."

// completionStatus maps a completion failure to the HTTP status and error
// code returned to the client.
func completionStatus(kind llm.Kind) (int, string) {
	switch kind {
	case llm.KindAuthFailure:
		return http.StatusBadGateway, "llm_auth_failure"
	case llm.KindRateLimited:
		return http.StatusTooManyRequests, "llm_rate_limited"
	case llm.KindTimeout:
		return http.StatusGatewayTimeout, "llm_timeout"
	case llm.KindMalformedResponse:
		return http.StatusBadGateway, "llm_malformed_response"
	default:
		return http.StatusBadGateway, "llm_error"
	}
}
