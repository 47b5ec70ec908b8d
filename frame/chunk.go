// Package frame implements Bolt's chunked message framing: a message body is
// split into length-prefixed chunks of at most 65535 bytes and terminated by
// a zero-length chunk.
package frame

import "encoding/binary"

// MaxChunkSize is the largest payload a single chunk may carry; the u16
// length prefix cannot express more.
const MaxChunkSize = 65535

// Chunkify splits body into chunks of at most chunkMax bytes (clamped to
// MaxChunkSize) and appends the on-wire framing: each chunk as a u16
// big-endian length followed by its bytes, then a trailing zero-length
// terminator. An empty body still produces the terminator alone.
func Chunkify(body []byte, chunkMax int) []byte {
	if chunkMax <= 0 || chunkMax > MaxChunkSize {
		chunkMax = MaxChunkSize
	}

	out := make([]byte, 0, len(body)+4)
	for len(body) > 0 {
		n := chunkMax
		if n > len(body) {
			n = len(body)
		}
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(n))
		out = append(out, lenBuf[:]...)
		out = append(out, body[:n]...)
		body = body[n:]
	}
	out = append(out, 0x00, 0x00)
	return out
}

// Reassemble consumes chunked framing from wire and returns the
// reassembled message body plus the number of bytes consumed from wire. It
// stops at the first zero-length chunk.
func Reassemble(wire []byte) (body []byte, consumed int, err error) {
	off := 0
	for {
		if off+2 > len(wire) {
			return nil, off, errShortChunkHeader()
		}
		n := int(binary.BigEndian.Uint16(wire[off : off+2]))
		off += 2
		if n == 0 {
			return body, off, nil
		}
		if off+n > len(wire) {
			return nil, off, errShortChunkBody(n)
		}
		body = append(body, wire[off:off+n]...)
		off += n
	}
}
