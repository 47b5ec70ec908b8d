package boltproxy

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
	"github.com/sorablue/boltwire/trace"
	"github.com/sorablue/boltwire/transport"
)

// conn manages the bidirectional relay and light protocol parsing for one
// client<->upstream connection pair.
type conn struct {
	client   *transport.Stream
	upstream *transport.Stream
	events   chan<- trace.Event

	sessionID string
	pending   []*pendingRun
}

// pendingRun tracks a RUN/RUN_WITH_METADATA request awaiting its terminal
// PULL reply, in FIFO order. Pipelining means more than one can be
// outstanding at once.
type pendingRun struct {
	statement string
	start     time.Time
	records   int
	// opened is set once the RUN itself has been answered with SUCCESS; the
	// next terminal reply then belongs to the PULL/DISCARD draining it.
	opened bool
}

func newConn(clientConn, upstreamConn net.Conn, events chan<- trace.Event) *conn {
	return &conn{
		client:    transport.New(clientConn),
		upstream:  transport.New(upstreamConn),
		events:    events,
		sessionID: uuid.New().String(),
	}
}

// relay handles the handshake and then enters bidirectional message relay.
func (c *conn) relay(ctx context.Context) error {
	if err := c.relayHandshake(); err != nil {
		return fmt.Errorf("boltproxy: handshake: %w", err)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- c.relayClientToUpstream() }()
	go func() { errCh <- c.relayUpstreamToClient() }()

	err := <-errCh
	_ = c.client.Close()
	_ = c.upstream.Close()
	<-errCh

	return err
}

// relayHandshake forwards the client's preamble and four version proposals
// to upstream unchanged, then forwards upstream's chosen version back.
func (c *conn) relayHandshake() error {
	req, err := c.client.ReadExact(20)
	if err != nil {
		return fmt.Errorf("read client handshake: %w", err)
	}
	if err := c.upstream.WriteAll(req); err != nil {
		return fmt.Errorf("write upstream handshake: %w", err)
	}
	if err := c.upstream.Flush(); err != nil {
		return err
	}

	resp, err := c.upstream.ReadExact(4)
	if err != nil {
		return fmt.Errorf("read upstream handshake response: %w", err)
	}
	if err := c.client.WriteAll(resp); err != nil {
		return fmt.Errorf("write client handshake response: %w", err)
	}
	return c.client.Flush()
}

// relayClientToUpstream forwards every client message to upstream
// unchanged, recording RUN/RUN_WITH_METADATA statements as they pass.
func (c *conn) relayClientToUpstream() error {
	for {
		wire, body, err := readFramedRaw(c.client)
		if err != nil {
			return err
		}

		msg, err := message.Decode(packstream.NewCursor(body))
		if err == nil && (msg.Signature == message.SigRun || msg.Signature == message.SigRunWithMetadata) {
			stmt := ""
			if len(msg.Fields) > 0 {
				stmt, _ = msg.Fields[0].Str()
			}
			c.pending = append(c.pending, &pendingRun{statement: stmt, start: time.Now()})
		}

		if err := c.upstream.WriteAll(wire); err != nil {
			return err
		}
		if err := c.upstream.Flush(); err != nil {
			return err
		}
	}
}

// relayUpstreamToClient forwards every upstream reply to the client
// unchanged, publishing a trace.Event for the oldest pending RUN once the
// terminal reply of the PULL/DISCARD after it arrives (or at once, when the
// RUN itself is answered with FAILURE or IGNORED).
func (c *conn) relayUpstreamToClient() error {
	for {
		wire, body, err := readFramedRaw(c.upstream)
		if err != nil {
			return err
		}

		msg, decErr := message.Decode(packstream.NewCursor(body))
		if decErr == nil && len(c.pending) > 0 {
			head := c.pending[0]
			switch {
			case message.IsRecord(msg):
				head.records++
			case message.IsTerminal(msg):
				if !head.opened && msg.Signature == message.SigSuccess {
					head.opened = true
					break
				}
				c.pending = c.pending[1:]
				ev := trace.Event{
					SessionID:   c.sessionID,
					Statement:   head.statement,
					Normalized:  trace.Normalize(head.statement),
					StartTime:   head.start,
					Duration:    time.Since(head.start),
					RecordCount: head.records,
					Signature:   msg.Signature,
				}
				if msg.Signature == message.SigFailure {
					if f, err := message.ParseFailure(msg); err == nil {
						ev.Error = f.Message
					}
				}
				c.events <- ev
			}
		}

		if err := c.client.WriteAll(wire); err != nil {
			return err
		}
		if err := c.client.Flush(); err != nil {
			return err
		}
	}
}

// readFramedRaw reads one chunked-framed message from s, returning both the
// exact wire bytes (chunk headers, bodies, and the zero-length terminator)
// for unmodified forwarding, and the reassembled body for decoding.
func readFramedRaw(s *transport.Stream) (wire, body []byte, err error) {
	for {
		n, err := s.ReadUint16()
		if err != nil {
			return nil, nil, err
		}
		wire = append(wire, byte(n>>8), byte(n))
		if n == 0 {
			break
		}
		chunk, err := s.ReadExact(int(n))
		if err != nil {
			return nil, nil, err
		}
		wire = append(wire, chunk...)
		body = append(body, chunk...)
	}
	return wire, body, nil
}
