// Package errors provides custom error types for the ChainDocs client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrEmptyQuery      = errors.New("query cannot be empty")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoAnswer        = errors.New("no answer in response")
)

// Inline texts shown in place of the assistant reply.
const (
	FetchFailedMessage = "Error fetching response."
	httpErrorFormat    = "Error: %d %s"
)

// APIError represents a non-2xx response from the server
type APIError struct {
	StatusCode int
	StatusText string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error [%d %s] at %s", e.StatusCode, e.StatusText, e.Endpoint)
}

// NewAPIError creates a new APIError. An empty statusText falls back to the
// standard reason phrase for the code.
func NewAPIError(statusCode int, statusText, endpoint string) *APIError {
	return NewAPIErrorWithBody(statusCode, statusText, endpoint, "")
}

// NewAPIErrorWithBody creates a new APIError that keeps the response body for diagnostics
func NewAPIErrorWithBody(statusCode int, statusText, endpoint, body string) *APIError {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return &APIError{
		StatusCode: statusCode,
		StatusText: statusText,
		Endpoint:   endpoint,
		Body:       body,
	}
}

// StatusTextFromStatus extracts the reason phrase from a status line such as
// "500 Internal Server Error".
func StatusTextFromStatus(status string, code int) string {
	prefix := fmt.Sprintf("%d", code)
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), prefix))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}

// NetworkError represents a transport-level failure
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
	Timeout  bool
}

func (e *NetworkError) Error() string {
	kind := "network error"
	if e.Timeout {
		kind = "request timed out"
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("%s during %s at %s: %v", kind, e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s during %s: %v", kind, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// NewTimeoutError creates a NetworkError flagged as a timeout
func NewTimeoutError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err, Timeout: true}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %q: %s", e.Path, e.Message)
	}
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

// GetHTTPStatus returns the HTTP status code carried by err, or 0.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or "".
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the response body kept on an APIError, or "".
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// IsAPIError reports whether err is a non-2xx response
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a transport timeout
func IsTimeoutError(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Timeout
	}
	return false
}

// IsParseError reports whether err came from decoding the response
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// InlineMessage maps err to the text shown in the assistant bubble.
// Non-2xx responses keep their status; everything else is a fetch failure.
func InlineMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf(httpErrorFormat, apiErr.StatusCode, apiErr.StatusText)
	}
	return FetchFailedMessage
}
