// Package boltproxy relays a Bolt client connection to an upstream Neo4j
// server byte-for-byte, decoding just enough of the traffic passing through
// to publish a trace.Event per statement.
package boltproxy

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/sorablue/boltwire/trace"
)

// Proxy accepts client connections on Listen and relays each one to
// Upstream, publishing one trace.Event per RUN/RUN_WITH_METADATA it
// observes.
type Proxy struct {
	listen   string
	upstream string
	events   chan trace.Event
	ln       net.Listener
}

// New creates a Proxy. Call ListenAndServe to start accepting connections.
func New(listen, upstream string) *Proxy {
	return &Proxy{listen: listen, upstream: upstream, events: make(chan trace.Event, 256)}
}

// Events returns the channel of captured events. It is closed when
// ListenAndServe returns.
func (p *Proxy) Events() <-chan trace.Event { return p.events }

// ListenAndServe accepts client connections until ctx is canceled, relaying
// each to the upstream address given to New.
func (p *Proxy) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", p.listen)
	if err != nil {
		return fmt.Errorf("boltproxy: listen %s: %w", p.listen, err)
	}
	p.ln = ln
	defer close(p.events)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		clientConn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("boltproxy: accept: %w", err)
			}
		}

		go func() {
			if err := p.handle(ctx, clientConn); err != nil {
				log.Printf("boltproxy: connection error: %v", err)
			}
		}()
	}
}

// Close stops accepting new connections.
func (p *Proxy) Close() error {
	if p.ln == nil {
		return nil
	}
	return p.ln.Close()
}

func (p *Proxy) handle(ctx context.Context, clientConn net.Conn) error {
	upstreamConn, err := net.Dial("tcp", p.upstream)
	if err != nil {
		_ = clientConn.Close()
		return fmt.Errorf("dial upstream %s: %w", p.upstream, err)
	}

	c := newConn(clientConn, upstreamConn, p.events)
	return c.relay(ctx)
}
