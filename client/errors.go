package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoSession is returned, without touching the network, when an
// authenticated call is made while signed out.
var ErrNoSession = errors.New("not signed in")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is what the server said, or "" when the body carried nothing usable.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Unauthorized reports a rejected or expired token.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err means the user must sign in again.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNoSession) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Message returns the server-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

const maxMessageLen = 300

// extractMessage pulls a human readable message out of an error body. The
// backend answers with plain text, a JSON string, or an object carrying
// "message" or "error".
func extractMessage(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return ""
	}
	switch s[0] {
	case '"':
		var str string
		if json.Unmarshal([]byte(s), &str) == nil {
			return truncate(str)
		}
	case '{':
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal([]byte(s), &obj) == nil {
			if obj.Message != "" {
				return truncate(obj.Message)
			}
			return truncate(obj.Error)
		}
		return ""
	case '<':
		// an HTML error page from a proxy says nothing useful
		return ""
	}
	return truncate(s)
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen] + "..."
}
