// Package transport owns the duplex byte stream a Client speaks Bolt over:
// plain TCP, or TLS-wrapped when a domain is configured for SNI and
// hostname verification.
package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/binary"
	"io"
	"net"
)

// Stream is a buffered, length-aware duplex connection. Writes are buffered
// until Flush (called once per message boundary by the caller); reads are
// buffered by bufio.Reader beneath ReadExact.
type Stream struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// New wraps an already-established net.Conn, skipping the dial/TLS steps in
// Dial. Used by tests and by callers that obtained the connection some
// other way (e.g. a listener Accept).
func New(conn net.Conn) *Stream {
	return &Stream{conn: conn, r: bufio.NewReader(conn), w: bufio.NewWriter(conn)}
}

// Dial opens a TCP connection to addr. When domain is non-empty the
// connection is wrapped in TLS using domain as the SNI and
// hostname-verification target; otherwise the stream is plain TCP.
func Dial(ctx context.Context, addr, domain string) (*Stream, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errIO(err)
	}

	if domain != "" {
		tc := tls.Client(conn, &tls.Config{ServerName: domain, MinVersion: tls.VersionTLS12})
		if err := tc.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, errIO(err)
		}
		conn = tc
	}

	return &Stream{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}, nil
}

// WriteAll buffers b for the next Flush.
func (s *Stream) WriteAll(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return errIO(err)
	}
	return nil
}

// Flush sends everything buffered by WriteAll. Bolt messages are written as
// one or more chunks followed by a terminator; callers flush once the whole
// message (all chunks plus terminator) has been queued.
func (s *Stream) Flush() error {
	if err := s.w.Flush(); err != nil {
		return errIO(err)
	}
	return nil
}

// ReadExact reads exactly n bytes.
func (s *Stream) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, errIO(err)
	}
	return buf, nil
}

// ReadUint16 reads a big-endian uint16, used for chunk length prefixes.
func (s *Stream) ReadUint16() (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(s.r, buf[:]); err != nil {
		return 0, errIO(err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// Close releases the underlying connection.
func (s *Stream) Close() error {
	return s.conn.Close()
}
