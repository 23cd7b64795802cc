package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("missing catalog API configuration")
	ErrNotFound      = errors.New("catalog entry not found")
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Code)
}
