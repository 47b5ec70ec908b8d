package transport

import "fmt"

// IOError wraps a transport-level failure: a dial, handshake, read, or
// write that failed at the socket level.
type IOError struct {
	cause error
}

func errIO(cause error) error { return &IOError{cause: cause} }

func (e *IOError) Error() string { return fmt.Sprintf("transport: %v", e.cause) }
func (e *IOError) Unwrap() error { return e.cause }
