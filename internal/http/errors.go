package http

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by a *StatusError carrying HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnsupportedURL is returned for links that are not http or https URLs,
// such as mailto: anchors.
var ErrUnsupportedURL = errors.New("unsupported URL")

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.Code, e.Status, e.URL)
}

// Is makes errors.Is(err, ErrUnauthorized) true for 401 answers.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// NetworkError is returned when the server cannot be reached or the
// connection drops mid-transfer.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is (or wraps) a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
