package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ErrQuotaExhausted marks errors caused by rate limiting or exhausted quota.
var ErrQuotaExhausted = errors.New("gemini quota exhausted")

// IsQuotaExhausted reports whether err is, or wraps, a quota error.
func IsQuotaExhausted(err error) bool {
	return errors.Is(err, ErrQuotaExhausted)
}

// classify tags quota failures with ErrQuotaExhausted and leaves everything
// else untouched.
func classify(err error) error {
	if err == nil || IsQuotaExhausted(err) {
		return err
	}
	if isQuota(err) {
		return fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
	}
	return err
}

// isQuota decides on the API status alone. Errors that never reached the
// API (local I/O, transport) are not quota errors, whatever their text.
func isQuota(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return quotaStatus(apiErr.Code, apiErr.Status)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return quotaStatus(apiErrPtr.Code, apiErrPtr.Status)
	}
	return false
}

func quotaStatus(code int, status string) bool {
	return code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED"
}
