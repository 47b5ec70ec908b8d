// Package packstream implements the PackStream binary value codec used by
// the Bolt wire protocol: markers, variable-width length prefixes,
// structures, and the graph/temporal/spatial value kinds built on top of
// them.
package packstream

import "fmt"

// CodecError is returned by every decode/encode failure in this package.
// Callers match on Kind rather than string-matching Error().
type CodecError struct {
	Kind ErrorKind

	// Byte, present for InvalidMarker.
	Byte byte

	// Key, present for DuplicateMapKey.
	Key string

	// Got/Want/Signature, present for InvalidStructureArity.
	Signature byte
	Got       int
	Want      int

	cause error
}

// ErrorKind distinguishes the codec failure modes named in the spec.
type ErrorKind int

const (
	// UnexpectedEOF means a read ran past the end of the buffer.
	UnexpectedEOF ErrorKind = iota
	// InvalidMarker means a marker byte matched no known value kind.
	InvalidMarker
	// LengthOverflow means a declared length exceeds what fits in the
	// target width (e.g. a structure field count over 15).
	LengthOverflow
	// InvalidUTF8 means a String's bytes are not valid UTF-8.
	InvalidUTF8
	// InvalidStructureArity means a structure's field count doesn't match
	// what its signature requires.
	InvalidStructureArity
	// DuplicateMapKey means a Map encoded the same key twice.
	DuplicateMapKey
	// InvalidPathSequence means a Path's Sequence has odd length or an
	// index out of range of its Rels/Nodes lists.
	InvalidPathSequence
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEOF:
		return "unexpected EOF"
	case InvalidMarker:
		return "invalid marker"
	case LengthOverflow:
		return "length overflow"
	case InvalidUTF8:
		return "invalid UTF-8"
	case InvalidStructureArity:
		return "invalid structure arity"
	case DuplicateMapKey:
		return "duplicate map key"
	case InvalidPathSequence:
		return "invalid path sequence"
	}
	return fmt.Sprintf("unknown codec error kind(%d)", int(k))
}

func (e *CodecError) Error() string {
	switch e.Kind {
	case InvalidMarker:
		return fmt.Sprintf("packstream: invalid marker 0x%02X", e.Byte)
	case DuplicateMapKey:
		return fmt.Sprintf("packstream: duplicate map key %q", e.Key)
	case InvalidStructureArity:
		return fmt.Sprintf("packstream: structure 0x%02X: got %d fields, want %d", e.Signature, e.Got, e.Want)
	case LengthOverflow:
		if e.cause != nil {
			return fmt.Sprintf("packstream: length overflow: %v", e.cause)
		}
		return "packstream: length overflow"
	}
	return fmt.Sprintf("packstream: %s", e.Kind)
}

func (e *CodecError) Unwrap() error { return e.cause }

func errUnexpectedEOF() error {
	return &CodecError{Kind: UnexpectedEOF}
}

func errInvalidMarker(b byte) error {
	return &CodecError{Kind: InvalidMarker, Byte: b}
}

func errDuplicateMapKey(key string) error {
	return &CodecError{Kind: DuplicateMapKey, Key: key}
}

func errInvalidStructureArity(sig byte, got, want int) error {
	return &CodecError{Kind: InvalidStructureArity, Signature: sig, Got: got, Want: want}
}

func errLengthOverflow(cause error) error {
	return &CodecError{Kind: LengthOverflow, cause: cause}
}

func errInvalidUTF8() error {
	return &CodecError{Kind: InvalidUTF8}
}

func errInvalidPathSequence() error {
	return &CodecError{Kind: InvalidPathSequence}
}
