package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the storefront API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the API rejected the session token.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
