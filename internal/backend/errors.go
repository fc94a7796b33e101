package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnreachable wraps transport-level failures (DNS, refused connection,
// timeout). Callers degrade to empty state and show generic retry copy.
var ErrUnreachable = errors.New("backend unreachable")

// APIError is a structured backend rejection: any non-2xx response. The
// backend reports validation failures as non_field_errors, detail, or
// field-keyed arrays of messages.
type APIError struct {
	StatusCode     int
	Detail         string
	NonFieldErrors []string
	Fields         map[string][]string
}

func (e *APIError) Error() string {
	if msg := e.firstMessage(); msg != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

func (e *APIError) firstMessage() string {
	if len(e.NonFieldErrors) > 0 {
		return e.NonFieldErrors[0]
	}
	if e.Detail != "" {
		return e.Detail
	}
	for _, msgs := range e.Fields {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// FriendlyMessage translates known backend validation copy into user-facing
// messages, falling back to the raw message or generic retry copy.
func (e *APIError) FriendlyMessage() string {
	msg := e.firstMessage()
	switch {
	case strings.Contains(msg, "not available for rental"):
		return "This tool is currently not available for rental. It may be already rented or temporarily unavailable."
	case strings.Contains(msg, "already booked"):
		return "This tool is already booked for the selected dates. Please choose different dates."
	case strings.Contains(msg, "cannot rent your own tool"), strings.Contains(msg, "cannot borrow your own tool"):
		return "You cannot rent your own tool. Please select a different tool."
	case strings.Contains(msg, "pending approved requests"):
		return "This tool has pending approved requests for the selected dates."
	case msg != "":
		return msg
	default:
		return "Something went wrong. Please try again."
	}
}

// IsNotFound reports whether err is a backend 404. Endpoints known to not yet
// exist (e.g. availability) are expected 404s and degrade silently.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401/403.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// parseAPIError decodes a non-2xx response body into an APIError. Bodies that
// are not JSON objects still produce a usable error with just the status.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for key, val := range raw {
		switch key {
		case "non_field_errors":
			var msgs []string
			if json.Unmarshal(val, &msgs) == nil {
				apiErr.NonFieldErrors = msgs
			}
		case "detail", "error", "message":
			var msg string
			if json.Unmarshal(val, &msg) == nil && apiErr.Detail == "" {
				apiErr.Detail = msg
			}
		default:
			var msgs []string
			if json.Unmarshal(val, &msgs) == nil && len(msgs) > 0 {
				if apiErr.Fields == nil {
					apiErr.Fields = make(map[string][]string)
				}
				apiErr.Fields[key] = msgs
			}
		}
	}
	return apiErr
}
