package menusdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aizuanjeme/coffeShop/pkg/slogx"
)

// APIError is a non-2xx answer from the menu service.
type APIError struct {
	StatusCode int
	Message    string

	// RequestID echoes the service's X-Request-ID, when it sent one.
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("menu api: %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// parseErrorResponse turns an error envelope into an *APIError, falling back
// to the status text when the body is not an envelope.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	reqID := resp.Header.Get(slogx.RequestIDHeader)

	var env ErrorResponse
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, RequestID: reqID}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		RequestID:  reqID,
	}
}
