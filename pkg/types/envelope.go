// Package types holds the wire shapes shared across the API surface.
package types

// Envelope is the uniform response wrapper. Success and Error are mutually
// exclusive; every non-2xx response carries success=false.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the client-facing error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
