package dto

import "time"

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Path      string            `json:"path"`
	Errors    map[string]string `json:"errors,omitempty"`
}
