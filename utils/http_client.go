package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the client used for calls to collaborator services.
// Collaborator calls are always wrapped in a circuit breaker by the caller.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}
