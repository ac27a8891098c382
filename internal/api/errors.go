package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingID is returned when an accessor is called without a resource id
var ErrMissingID = errors.New("missing resource id")

// Kind classifies API failures
type Kind int

const (
	KindTransport Kind = iota + 1 // Network or protocol failure, no response
	KindStatus                    // Non-2xx response
	KindDecode                    // Response body could not be decoded
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every accessor on failure
type Error struct {
	Kind       Kind
	Resource   string
	StatusCode int    // Set for KindStatus
	Message    string // Human-readable description
	Err        error
}

func (e *Error) Error() string {
	if e.Resource == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindStatus && apiErr.StatusCode == http.StatusNotFound
}

// statusMessage prefers the backend's {"detail": ...} body over the bare status line
func statusMessage(code int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
			return detail
		}

		// Validation errors arrive as a list of {loc, msg, type}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	return fmt.Sprintf("unexpected status: %d %s", code, http.StatusText(code))
}
