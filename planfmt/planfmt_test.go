package planfmt_test

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/sorablue/boltwire/boltclient"
	"github.com/sorablue/boltwire/frame"
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
	"github.com/sorablue/boltwire/planfmt"
	"github.com/sorablue/boltwire/transport"
)

// fakeServer mirrors boltclient_test's fake server: it drives the other end
// of the pipe directly, since a real Client can't be used to forge replies.
type fakeServer struct {
	t *testing.T
	s *transport.Stream
}

func (f *fakeServer) readHandshake() {
	f.t.Helper()
	if _, err := f.s.ReadExact(4); err != nil {
		f.t.Fatalf("read preamble: %v", err)
	}
	if _, err := f.s.ReadExact(16); err != nil {
		f.t.Fatalf("read versions: %v", err)
	}
}

func (f *fakeServer) writeHandshakeResponse(version uint32) {
	f.t.Helper()
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], version)
	if err := f.s.WriteAll(buf[:]); err != nil {
		f.t.Fatalf("write handshake response: %v", err)
	}
	if err := f.s.Flush(); err != nil {
		f.t.Fatalf("flush: %v", err)
	}
}

func (f *fakeServer) readMessage() message.Message {
	f.t.Helper()
	var body []byte
	for {
		n, err := f.s.ReadUint16()
		if err != nil {
			f.t.Fatalf("read chunk length: %v", err)
		}
		if n == 0 {
			break
		}
		chunk, err := f.s.ReadExact(int(n))
		if err != nil {
			f.t.Fatalf("read chunk: %v", err)
		}
		body = append(body, chunk...)
	}
	msg, err := message.Decode(packstream.NewCursor(body))
	if err != nil {
		f.t.Fatalf("decode: %v", err)
	}
	return msg
}

func (f *fakeServer) sendMessage(msg message.Message) {
	f.t.Helper()
	cur := packstream.NewWriteCursor()
	if err := message.Encode(cur, msg); err != nil {
		f.t.Fatalf("encode: %v", err)
	}
	wire := frame.Chunkify(cur.Bytes(), frame.MaxChunkSize)
	if err := f.s.WriteAll(wire); err != nil {
		f.t.Fatalf("write: %v", err)
	}
	if err := f.s.Flush(); err != nil {
		f.t.Fatalf("flush: %v", err)
	}
}

func TestRunFormatsPlanTree(t *testing.T) {
	t.Parallel()

	cConn, sConn := net.Pipe()
	defer cConn.Close()
	defer sConn.Close()

	client := boltclient.NewWithStream(transport.New(cConn))
	server := &fakeServer{t: t, s: transport.New(sConn)}

	done := make(chan error, 1)
	go func() { done <- client.Handshake([4]uint32{3, 0, 0, 0}) }()
	server.readHandshake()
	server.writeHandshakeResponse(3)
	if err := <-done; err != nil {
		t.Fatalf("handshake: %v", err)
	}

	pf := planfmt.NewClient(client)

	errCh := make(chan error, 1)
	resCh := make(chan *planfmt.Result, 1)
	go func() {
		res, err := pf.Run(t.Context(), planfmt.ExplainMode, "MATCH (n:User) RETURN n", nil)
		if err != nil {
			errCh <- err
			return
		}
		resCh <- res
		errCh <- nil
	}()

	server.readMessage() // RUN
	server.sendMessage(message.Message{
		Signature: message.SigSuccess,
		Fields:    []packstream.Value{packstream.NewMap(nil)},
	})

	server.readMessage() // PULL_ALL
	child := packstream.NewMap(map[string]packstream.Value{
		"operatorType": packstream.NewString("NodeByLabelScan"),
		"args": packstream.NewMap(map[string]packstream.Value{
			"EstimatedRows": packstream.NewInt(10),
		}),
	})
	root := packstream.NewMap(map[string]packstream.Value{
		"operatorType": packstream.NewString("ProduceResults"),
		"args":         packstream.NewMap(nil),
		"children":     packstream.NewList([]packstream.Value{child}),
	})
	server.sendMessage(message.Message{
		Signature: message.SigSuccess,
		Fields:    []packstream.Value{packstream.NewMap(map[string]packstream.Value{"plan": root})},
	})

	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	res := <-resCh

	want := "+-ProduceResults\n  +-NodeByLabelScan (EstimatedRows=10)"
	if res.Plan != want {
		t.Fatalf("Plan =\n%s\nwant\n%s", res.Plan, want)
	}
}
