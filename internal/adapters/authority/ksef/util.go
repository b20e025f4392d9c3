package ksef

import (
	"errors"
	"io"
	"net/http"
)

// StatusError wraps a non-2xx response from the authority
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

// Error interface
func (e *StatusError) Error() string {
	return "ksef " + e.Endpoint + ": " + http.StatusText(e.Status) + " " + e.Body
}

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// StatusOf returns the authority HTTP status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

func isClientError(status int) bool {
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout
}

func isTransient(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests || status == http.StatusRequestTimeout
}
