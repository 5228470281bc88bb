package erpnext

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the bridge has no base URL or credentials.
	ErrNotConfigured = errors.New("erpnext bridge is not configured")
	// ErrUnavailable covers timeouts and network failures.
	ErrUnavailable = errors.New("erpnext is unavailable")
	// ErrAuth covers remote 401/403 responses.
	ErrAuth = errors.New("erpnext rejected the credentials")
	// ErrFormat means the remote body was not the JSON shape expected.
	ErrFormat = errors.New("erpnext returned an unexpected response format")
)

const maxErrorBody = 500

// APIError is a remote >=400 response, body carried verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "…"
	}
	return fmt.Sprintf("erpnext error %d: %s", e.Status, body)
}
