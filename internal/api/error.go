package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a structured failure from the backend. Detail mirrors FastAPI's
// `detail` field, which is either a plain string or a list of validation
// errors carrying a message each.
type Error struct {
	StatusCode int
	Detail     json.RawMessage
	RequestID  string
}

func (e *Error) Error() string {
	msg := e.Message("")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, msg)
}

// Message normalizes the detail payload into one human-readable string.
// A string detail is used verbatim. A list detail joins each element's
// message with ", ", skipping empty ones and preserving order. Anything
// else falls back to the caller-supplied default.
func (e *Error) Message(fallback string) string {
	if e == nil || len(e.Detail) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		if s == "" {
			return fallback
		}
		return s
	}
	var items []struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Detail, &items); err == nil {
		var parts []string
		for _, item := range items {
			msg := item.Msg
			if msg == "" {
				msg = item.Message
			}
			if strings.TrimSpace(msg) == "" {
				continue
			}
			parts = append(parts, msg)
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return fallback
}

// ExtractMessage renders any error for inline display. API errors go through
// detail normalization; everything else (network failures included) gets the
// fallback so raw transport errors never reach the user.
func ExtractMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func decodeError(status int, requestID string, body []byte) *Error {
	apiErr := &Error{StatusCode: status, RequestID: requestID}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
