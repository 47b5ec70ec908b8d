package packstream

import "math"

// Cursor is a bidirectional, length-checked byte buffer. Reads advance an
// internal offset and fail with CodecError{Kind: UnexpectedEOF} on
// underflow; writes append to the buffer and never fail.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor wraps buf for reading from offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// NewWriteCursor returns an empty Cursor ready for writing. Reset reuses the
// backing array across encodes, matching the single-pass, low-allocation
// encode path the spec calls for.
func NewWriteCursor() *Cursor {
	return &Cursor{buf: make([]byte, 0, 64)}
}

// Reset empties the buffer but keeps its backing array.
func (c *Cursor) Reset() {
	c.buf = c.buf[:0]
	c.off = 0
}

// Bytes returns the buffer written so far (or, after reads, the full
// underlying slice — callers interested in unread bytes use Remaining).
func (c *Cursor) Bytes() []byte { return c.buf }

// Remaining returns the slice of bytes not yet read.
func (c *Cursor) Remaining() []byte { return c.buf[c.off:] }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

func (c *Cursor) need(n int) error {
	if c.Len() < n {
		return errUnexpectedEOF()
	}
	return nil
}

// ReadByte reads one unsigned byte.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// PeekByte returns the next byte without consuming it.
func (c *Cursor) PeekByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	return c.buf[c.off], nil
}

// ReadBytes reads exactly n raw bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadUint16 reads a big-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := uint16(c.buf[c.off])<<8 | uint16(c.buf[c.off+1])
	c.off += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := uint32(c.buf[c.off])<<24 | uint32(c.buf[c.off+1])<<16 |
		uint32(c.buf[c.off+2])<<8 | uint32(c.buf[c.off+3])
	c.off += 4
	return v, nil
}

// ReadUint64 reads a big-endian uint64.
func (c *Cursor) ReadUint64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(c.buf[c.off+i])
	}
	c.off += 8
	return v, nil
}

// ReadInt8 reads a signed 8-bit integer.
func (c *Cursor) ReadInt8() (int8, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

// ReadInt16 reads a big-endian signed 16-bit integer.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// ReadInt32 reads a big-endian signed 32-bit integer.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadFloat64 reads a big-endian IEEE-754 binary64.
func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteByte appends one byte.
func (c *Cursor) WriteByte(b byte) {
	c.buf = append(c.buf, b)
}

// WriteBytes appends raw bytes.
func (c *Cursor) WriteBytes(b []byte) {
	c.buf = append(c.buf, b...)
}

// WriteUint16 appends a big-endian uint16.
func (c *Cursor) WriteUint16(v uint16) {
	c.buf = append(c.buf, byte(v>>8), byte(v))
}

// WriteUint32 appends a big-endian uint32.
func (c *Cursor) WriteUint32(v uint32) {
	c.buf = append(c.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteUint64 appends a big-endian uint64.
func (c *Cursor) WriteUint64(v uint64) {
	c.buf = append(c.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteInt8 appends a signed 8-bit integer.
func (c *Cursor) WriteInt8(v int8) { c.WriteByte(byte(v)) }

// WriteInt16 appends a big-endian signed 16-bit integer.
func (c *Cursor) WriteInt16(v int16) { c.WriteUint16(uint16(v)) }

// WriteInt32 appends a big-endian signed 32-bit integer.
func (c *Cursor) WriteInt32(v int32) { c.WriteUint32(uint32(v)) }

// WriteInt64 appends a big-endian signed 64-bit integer.
func (c *Cursor) WriteInt64(v int64) { c.WriteUint64(uint64(v)) }

// WriteFloat64 appends a big-endian IEEE-754 binary64.
func (c *Cursor) WriteFloat64(v float64) {
	c.WriteUint64(math.Float64bits(v))
}
