package httpclient

import (
	"errors"
	"fmt"
)

// HTTPError is returned when the upstream answers with a non-2xx status
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string

	// Body holds the start of the response body, if any
	Body string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, url, message string) error {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an HTTPError
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsClientError reports whether err is a 4xx HTTPError other than 408 and 429.
// Such failures are not worth retrying.
func IsClientError(err error) bool {
	code := StatusCode(err)
	if code == 408 || code == 429 {
		return false
	}
	return code >= 400 && code < 500
}
