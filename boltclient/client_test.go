package boltclient_test

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/sorablue/boltwire/boltclient"
	"github.com/sorablue/boltwire/frame"
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
	"github.com/sorablue/boltwire/transport"
)

// fakeServer plays the server side of the wire protocol directly against a
// transport.Stream, standing in for a real Neo4j instance so these tests
// don't need Docker (see client_integration_test.go for that).
type fakeServer struct {
	t *testing.T
	s *transport.Stream
}

func (f *fakeServer) readHandshake() [4]uint32 {
	f.t.Helper()
	preamble, err := f.s.ReadExact(4)
	if err != nil {
		f.t.Fatalf("server read preamble: %v", err)
	}
	want := [4]byte{0x60, 0x60, 0xB0, 0x17}
	for i, b := range preamble {
		if b != want[i] {
			f.t.Fatalf("bad preamble byte %d: got 0x%02X", i, b)
		}
	}
	raw, err := f.s.ReadExact(16)
	if err != nil {
		f.t.Fatalf("server read versions: %v", err)
	}
	var versions [4]uint32
	for i := range versions {
		versions[i] = binary.BigEndian.Uint32(raw[i*4 : i*4+4])
	}
	return versions
}

func (f *fakeServer) writeHandshakeResponse(selected uint32) {
	f.t.Helper()
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], selected)
	if err := f.s.WriteAll(buf[:]); err != nil {
		f.t.Fatalf("server write handshake response: %v", err)
	}
	if err := f.s.Flush(); err != nil {
		f.t.Fatalf("server flush: %v", err)
	}
}

func (f *fakeServer) readMessage() message.Message {
	f.t.Helper()
	var body []byte
	for {
		n, err := f.s.ReadUint16()
		if err != nil {
			f.t.Fatalf("server read chunk length: %v", err)
		}
		if n == 0 {
			break
		}
		chunk, err := f.s.ReadExact(int(n))
		if err != nil {
			f.t.Fatalf("server read chunk: %v", err)
		}
		body = append(body, chunk...)
	}
	msg, err := message.Decode(packstream.NewCursor(body))
	if err != nil {
		f.t.Fatalf("server decode: %v", err)
	}
	return msg
}

func (f *fakeServer) sendMessage(msg message.Message) {
	f.t.Helper()
	cur := packstream.NewWriteCursor()
	if err := message.Encode(cur, msg); err != nil {
		f.t.Fatalf("server encode: %v", err)
	}
	wire := frame.Chunkify(cur.Bytes(), frame.MaxChunkSize)
	if err := f.s.WriteAll(wire); err != nil {
		f.t.Fatalf("server write: %v", err)
	}
	if err := f.s.Flush(); err != nil {
		f.t.Fatalf("server flush: %v", err)
	}
}

// dialHandshaken returns a Client already handshaken to version, and the
// fakeServer on the other end of an in-memory pipe.
func dialHandshaken(t *testing.T, version uint32) (*boltclient.Client, *fakeServer) {
	t.Helper()
	cConn, sConn := net.Pipe()
	t.Cleanup(func() { cConn.Close(); sConn.Close() })

	client := boltclient.NewWithStream(transport.New(cConn))
	server := &fakeServer{t: t, s: transport.New(sConn)}

	done := make(chan error, 1)
	go func() { done <- client.Handshake([4]uint32{version, 0, 0, 0}) }()
	server.readHandshake()
	server.writeHandshakeResponse(version)
	if err := <-done; err != nil {
		t.Fatalf("handshake: %v", err)
	}
	return client, server
}

func TestHandshakeSelectsVersion(t *testing.T) {
	t.Parallel()
	client, _ := dialHandshaken(t, 1)
	if client.Version() != 1 {
		t.Fatalf("Version() = %d, want 1", client.Version())
	}
}

func TestHandshakeNoCommonVersion(t *testing.T) {
	t.Parallel()
	cConn, sConn := net.Pipe()
	defer cConn.Close()
	defer sConn.Close()

	client := boltclient.NewWithStream(transport.New(cConn))
	server := &fakeServer{t: t, s: transport.New(sConn)}

	done := make(chan error, 1)
	go func() { done <- client.Handshake([4]uint32{9, 0, 0, 0}) }()
	server.readHandshake()
	server.writeHandshakeResponse(0)

	if err := <-done; err == nil {
		t.Fatal("expected HandshakeFailedError")
	}
}

func TestInitRunPullAllRecord(t *testing.T) {
	t.Parallel()
	client, server := dialHandshaken(t, 1)

	errCh := make(chan error, 1)
	go func() {
		if _, err := client.Init("boltwire-test/1.0", map[string]packstream.Value{
			"scheme": packstream.NewString("basic"),
		}); err != nil {
			errCh <- err
			return
		}
		if _, err := client.Run("RETURN 3458376 as n;", nil); err != nil {
			errCh <- err
			return
		}
		pr, err := client.PullAll()
		if err != nil {
			errCh <- err
			return
		}
		if len(pr.Records) != 1 {
			errCh <- errFatal("want exactly 1 record")
			return
		}
		fields, err := message.ParseRecord(pr.Records[0])
		if err != nil {
			errCh <- err
			return
		}
		n, ok := fields[0].Int()
		if !ok || n != 3458376 {
			errCh <- errFatal("record field mismatch")
			return
		}
		errCh <- nil
	}()

	successEmpty := message.Message{Signature: message.SigSuccess, Fields: []packstream.Value{packstream.NewMap(nil)}}
	server.readMessage() // INIT
	server.sendMessage(successEmpty)
	server.readMessage() // RUN
	server.sendMessage(successEmpty)
	server.readMessage() // PULL_ALL
	server.sendMessage(message.Message{
		Signature: message.SigRecord,
		Fields:    []packstream.Value{packstream.NewList([]packstream.Value{packstream.NewInt(3458376)})},
	})
	server.sendMessage(successEmpty)

	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
}

func TestFailureIgnoreAckReset(t *testing.T) {
	t.Parallel()
	client, server := dialHandshaken(t, 1)

	errCh := make(chan error, 1)
	go func() {
		reply, err := client.Run("MALFORMED (((", nil)
		if err != nil {
			errCh <- err
			return
		}
		if reply.Signature != message.SigFailure {
			errCh <- errFatal("want FAILURE reply")
			return
		}
		if !client.Failed() {
			errCh <- errFatal("want Failed() true after FAILURE")
			return
		}

		reply, err = client.Run("RETURN 1", nil)
		if err != nil {
			errCh <- err
			return
		}
		if !message.IsIgnored(reply) {
			errCh <- errFatal("want IGNORED before ACK_FAILURE")
			return
		}

		if _, err := client.AckFailure(); err != nil {
			errCh <- err
			return
		}
		if client.Failed() {
			errCh <- errFatal("want Failed() false after ACK_FAILURE success")
			return
		}

		reply, err = client.Run("RETURN 1", nil)
		if err != nil {
			errCh <- err
			return
		}
		if reply.Signature != message.SigSuccess {
			errCh <- errFatal("want SUCCESS after ACK_FAILURE")
			return
		}
		errCh <- nil
	}()

	server.readMessage() // RUN (malformed)
	server.sendMessage(message.Message{
		Signature: message.SigFailure,
		Fields: []packstream.Value{packstream.NewMap(map[string]packstream.Value{
			"code":    packstream.NewString("Neo.ClientError.Statement.SyntaxError"),
			"message": packstream.NewString("bad query"),
		})},
	})
	server.readMessage() // RUN (before ACK_FAILURE)
	server.sendMessage(message.Message{Signature: message.SigIgnored})
	server.readMessage() // ACK_FAILURE
	server.sendMessage(message.Message{Signature: message.SigSuccess, Fields: []packstream.Value{packstream.NewMap(nil)}})
	server.readMessage() // RUN (after ACK_FAILURE)
	server.sendMessage(message.Message{Signature: message.SigSuccess, Fields: []packstream.Value{packstream.NewMap(nil)}})

	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
}

func TestPipelineOrder(t *testing.T) {
	t.Parallel()
	client, server := dialHandshaken(t, 1)

	msgs := make([]message.Message, 0, 8)
	for i := 0; i < 4; i++ {
		msgs = append(msgs, message.Run("RETURN 1", nil), message.PullAll())
	}

	errCh := make(chan error, 1)
	go func() {
		replies, err := client.Pipeline(msgs)
		if err != nil {
			errCh <- err
			return
		}
		if len(replies) != 8 {
			errCh <- errFatal("want 8 replies")
			return
		}
		for i, r := range replies {
			if r.Terminal.Signature != message.SigSuccess {
				errCh <- errFatal("reply not SUCCESS")
				return
			}
			if i%2 == 1 && len(r.Records) != 1 {
				errCh <- errFatal("want 1 record per PULL_ALL")
				return
			}
		}
		errCh <- nil
	}()

	// Pipeline writes all 8 requests before reading any reply back, and
	// net.Pipe is unbuffered: the server must drain requests on its own
	// goroutine, independent of when it writes replies, or the client's
	// blocked write and the server's blocked reply write deadlock each
	// other.
	go func() {
		for i := 0; i < 8; i++ {
			server.readMessage()
		}
	}()

	successEmpty := message.Message{Signature: message.SigSuccess, Fields: []packstream.Value{packstream.NewMap(nil)}}
	for i := 0; i < 4; i++ {
		server.sendMessage(successEmpty) // RUN reply
		server.sendMessage(message.Message{
			Signature: message.SigRecord,
			Fields:    []packstream.Value{packstream.NewList([]packstream.Value{packstream.NewInt(int64(i))})},
		})
		server.sendMessage(successEmpty) // PULL_ALL terminal
	}

	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
}

func TestVersionGatingBlocksWire(t *testing.T) {
	t.Parallel()
	client, _ := dialHandshaken(t, 1)

	if _, err := client.Hello(nil); err == nil {
		t.Fatal("expected UnsupportedOperationError for HELLO under v1")
	}
}

type fatalError string

func (e fatalError) Error() string { return string(e) }
func errFatal(msg string) error    { return fatalError(msg) }
