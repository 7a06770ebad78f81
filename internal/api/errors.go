package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport wraps failures that happened before a response was received.
var ErrTransport = errors.New("backend unreachable")

// Error is a non-2xx response of the backend.
type Error struct {
	StatusCode int
	Detail     string // server supplied message, may be empty
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Detail extracts the server message from err, if any.
func Detail(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// parseDetail reads {"detail": "..."}. FastAPI validation errors carry a list
// instead of a string; those yield no detail.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
