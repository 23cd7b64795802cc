package image

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSource     = errors.New("image source is required")
	ErrUnsupportedSource = errors.New("unsupported image source type")
)

// ConfigurationError reports a transform that cannot be served by the proxy.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("image configuration error: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("image configuration error: %s: %v (%s)", e.Field, e.Err, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
