// Package dto provides Data Transfer Objects for API responses.
package dto

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// InfoResponse is the body of GET /.
type InfoResponse struct {
	Message  string `json:"message"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// Database states reported by InfoResponse.
const (
	DatabaseConnected   = "connected"
	DatabaseUnavailable = "unavailable"
)
