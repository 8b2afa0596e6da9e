package provider

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// ConnectionError is returned when the cluster endpoint can't be reached or
// authenticated against.
type ConnectionError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("connection failed: %v", e.Err)
	}
	return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsTransportError tells whether err comes from the network layer rather than
// from the remote node's response.
func IsTransportError(err error) bool {
	var (
		netErr net.Error
		urlErr *url.Error
		opErr  *net.OpError
	)
	return errors.As(err, &urlErr) || errors.As(err, &opErr) || errors.As(err, &netErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
