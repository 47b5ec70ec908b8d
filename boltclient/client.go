// Package boltclient implements the versioned Bolt client state machine:
// handshake, version-gated request methods, ordered request/response
// exchange, pipelining, and the failure/ignore/reset protocol built on top
// of package message and package frame.
package boltclient

import (
	"context"
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/sorablue/boltwire/frame"
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
	"github.com/sorablue/boltwire/transport"
)

// handshakePreamble is the fixed 4-byte Bolt magic that precedes the four
// version proposals.
var handshakePreamble = [4]byte{0x60, 0x60, 0xB0, 0x17}

// Client owns exactly one transport stream and the protocol version
// negotiated for it. It is not safe for concurrent use: at most one caller
// may have an outstanding operation at a time.
type Client struct {
	stream  *transport.Stream
	version int
	failed  bool

	// SessionID identifies this client for correlation in the trace
	// package; it has no wire meaning.
	SessionID uuid.UUID
}

// New dials addr and returns a Client with no negotiated version yet; call
// Handshake before issuing any message. When domain is non-empty the
// connection is TLS-wrapped.
func New(ctx context.Context, addr, domain string) (*Client, error) {
	s, err := transport.Dial(ctx, addr, domain)
	if err != nil {
		return nil, err
	}
	return &Client{stream: s, SessionID: uuid.New()}, nil
}

// NewWithStream wraps an already-connected transport.Stream, for tests and
// for callers that establish the connection themselves.
func NewWithStream(s *transport.Stream) *Client {
	return &Client{stream: s, SessionID: uuid.New()}
}

// Version returns the negotiated Bolt version, or 0 before Handshake.
func (c *Client) Version() int { return c.version }

// Failed reports whether the connection is in the server-side failed state
// last observed by this Client (a prior reply was FAILURE and no
// ACK_FAILURE/RESET has since succeeded).
func (c *Client) Failed() bool { return c.failed }

// Close releases the underlying stream.
func (c *Client) Close() error { return c.stream.Close() }

// Handshake writes the Bolt preamble and four version proposals (in
// client-preference order, zero-padded) and reads back the server's choice.
// A zero response means no common version; the socket is closed and
// HandshakeFailedError is returned.
func (c *Client) Handshake(versions [4]uint32) error {
	buf := make([]byte, 0, 20)
	buf = append(buf, handshakePreamble[:]...)
	for _, v := range versions {
		var vb [4]byte
		binary.BigEndian.PutUint32(vb[:], v)
		buf = append(buf, vb[:]...)
	}

	if err := c.stream.WriteAll(buf); err != nil {
		return err
	}
	if err := c.stream.Flush(); err != nil {
		return err
	}

	resp, err := c.stream.ReadExact(4)
	if err != nil {
		return err
	}
	selected := binary.BigEndian.Uint32(resp)
	if selected == 0 {
		c.stream.Close()
		return errHandshakeFailed()
	}
	c.version = int(selected)
	return nil
}

// SendMessage encodes and writes msg as chunked framing, without reading any
// reply. Most callers want a version-gated method instead; this is the
// escape hatch the spec calls for.
func (c *Client) SendMessage(msg message.Message) error {
	cur := packstream.NewWriteCursor()
	if err := message.Encode(cur, msg); err != nil {
		return wrapCodec("encode", err)
	}
	wire := frame.Chunkify(cur.Bytes(), frame.MaxChunkSize)
	if err := c.stream.WriteAll(wire); err != nil {
		return err
	}
	return c.stream.Flush()
}

// ReadMessage reads one chunked-framed message and decodes it. This is the
// other half of the escape hatch; most callers get replies back from the
// version-gated methods instead.
func (c *Client) ReadMessage() (message.Message, error) {
	var body []byte
	for {
		n, err := c.stream.ReadUint16()
		if err != nil {
			return message.Message{}, err
		}
		if n == 0 {
			break
		}
		chunk, err := c.stream.ReadExact(int(n))
		if err != nil {
			return message.Message{}, err
		}
		body = append(body, chunk...)
	}
	msg, err := message.Decode(packstream.NewCursor(body))
	if err != nil {
		return message.Message{}, wrapCodec("decode", err)
	}
	return msg, nil
}

// exchange version-checks method, sends msg, and reads exactly one reply,
// updating failed-state tracking from the observed reply.
func (c *Client) exchange(method message.Method, msg message.Message) (message.Message, error) {
	if !message.Allowed(method, c.version) {
		return message.Message{}, message.NewUnsupportedOperation(method, c.version)
	}
	if err := c.SendMessage(msg); err != nil {
		return message.Message{}, err
	}
	reply, err := c.ReadMessage()
	if err != nil {
		return message.Message{}, err
	}
	c.observe(method, reply)
	return reply, nil
}

func (c *Client) observe(method message.Method, reply message.Message) {
	switch reply.Signature {
	case message.SigFailure:
		c.failed = true
	case message.SigSuccess:
		if method == message.MethodAckFailure || method == message.MethodReset {
			c.failed = false
		}
	}
}
