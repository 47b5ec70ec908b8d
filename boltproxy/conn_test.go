package boltproxy

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sorablue/boltwire/frame"
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
	"github.com/sorablue/boltwire/trace"
	"github.com/sorablue/boltwire/transport"
)

func sendMsg(t *testing.T, s *transport.Stream, msg message.Message) {
	t.Helper()
	cur := packstream.NewWriteCursor()
	if err := message.Encode(cur, msg); err != nil {
		t.Fatalf("encode: %v", err)
	}
	wire := frame.Chunkify(cur.Bytes(), frame.MaxChunkSize)
	if err := s.WriteAll(wire); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func readMsg(t *testing.T, s *transport.Stream) message.Message {
	t.Helper()
	var body []byte
	for {
		n, err := s.ReadUint16()
		if err != nil {
			t.Fatalf("read chunk length: %v", err)
		}
		if n == 0 {
			break
		}
		chunk, err := s.ReadExact(int(n))
		if err != nil {
			t.Fatalf("read chunk: %v", err)
		}
		body = append(body, chunk...)
	}
	msg, err := message.Decode(packstream.NewCursor(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

// TestConnRelaysMessagesAndPublishesEvent drives a conn between a fake
// client and a fake upstream server, both playing their role directly on a
// net.Pipe the way boltclient's tests play the server role.
func TestConnRelaysMessagesAndPublishesEvent(t *testing.T) {
	clientAppConn, clientProxyConn := net.Pipe()
	defer clientAppConn.Close()
	upstreamProxyConn, upstreamSrvConn := net.Pipe()
	defer upstreamSrvConn.Close()

	events := make(chan trace.Event, 4)
	c := newConn(clientProxyConn, upstreamProxyConn, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	relayErrCh := make(chan error, 1)
	go func() { relayErrCh <- c.relay(ctx) }()

	clientApp := transport.New(clientAppConn)
	upstreamSrv := transport.New(upstreamSrvConn)

	handshakeDone := make(chan struct{})
	go func() {
		req := append([]byte{0x60, 0x60, 0xB0, 0x17}, make([]byte, 16)...)
		req[19] = 1 // propose version 1
		if err := clientApp.WriteAll(req); err != nil {
			t.Error(err)
		}
		_ = clientApp.Flush()
		close(handshakeDone)
	}()
	if _, err := upstreamSrv.ReadExact(20); err != nil {
		t.Fatalf("upstream read handshake: %v", err)
	}
	if err := upstreamSrv.WriteAll([]byte{0, 0, 0, 1}); err != nil {
		t.Fatalf("upstream write handshake response: %v", err)
	}
	_ = upstreamSrv.Flush()
	<-handshakeDone
	if _, err := clientApp.ReadExact(4); err != nil {
		t.Fatalf("client read handshake response: %v", err)
	}

	sendMsg(t, clientApp, message.Run("RETURN 1", nil))
	readMsg(t, upstreamSrv) // RUN relayed to upstream
	sendMsg(t, upstreamSrv, message.Message{
		Signature: message.SigSuccess,
		Fields:    []packstream.Value{packstream.NewMap(nil)},
	})
	if got := readMsg(t, clientApp); got.Signature != message.SigSuccess {
		t.Fatalf("client got signature 0x%02X, want SUCCESS", got.Signature)
	}

	sendMsg(t, clientApp, message.PullAll())
	readMsg(t, upstreamSrv) // PULL_ALL relayed
	sendMsg(t, upstreamSrv, message.Message{
		Signature: message.SigRecord,
		Fields:    []packstream.Value{packstream.NewList([]packstream.Value{packstream.NewInt(1)})},
	})
	sendMsg(t, upstreamSrv, message.Message{
		Signature: message.SigSuccess,
		Fields:    []packstream.Value{packstream.NewMap(nil)},
	})
	readMsg(t, clientApp) // RECORD relayed
	readMsg(t, clientApp) // SUCCESS relayed

	select {
	case ev := <-events:
		if ev.Statement != "RETURN 1" {
			t.Fatalf("statement = %q, want %q", ev.Statement, "RETURN 1")
		}
		if ev.RecordCount != 1 {
			t.Fatalf("RecordCount = %d, want 1", ev.RecordCount)
		}
		if ev.Signature != message.SigSuccess {
			t.Fatalf("signature = 0x%02X, want SUCCESS", ev.Signature)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}

	clientAppConn.Close()
	upstreamSrvConn.Close()
	<-relayErrCh
}
