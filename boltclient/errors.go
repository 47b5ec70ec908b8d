package boltclient

import "fmt"

// HandshakeFailedError means the server's version response was zero: no
// proposed version was acceptable. The socket is already closed when this
// is returned.
type HandshakeFailedError struct{}

func (e *HandshakeFailedError) Error() string { return "boltclient: handshake failed: no common version" }

func errHandshakeFailed() error { return &HandshakeFailedError{} }

// ServerFailureError wraps a FAILURE reply's code and message for callers
// that want to treat it as a Go error rather than inspecting the raw
// message.
type ServerFailureError struct {
	Code    string
	Message string
}

func (e *ServerFailureError) Error() string {
	return fmt.Sprintf("boltclient: server failure: %s: %s", e.Code, e.Message)
}

func wrapCodec(op string, err error) error {
	return fmt.Errorf("boltclient: %s: %w", op, err)
}
