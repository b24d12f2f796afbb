package telegram

import "fmt"

// APIError is a non-success answer from the Bot API, either an HTTP error
// status or a 2xx body with "ok": false.
type APIError struct {
	Method      string
	StatusCode  int
	Code        int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram %s: HTTP %d: %s", e.Method, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram %s: HTTP %d", e.Method, e.StatusCode)
}
