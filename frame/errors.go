package frame

import "fmt"

// Error reports a malformed chunk stream: a length prefix was cut short, or
// a chunk body ran past the end of the available bytes.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "frame: " + e.msg }

func errShortChunkHeader() error {
	return &Error{msg: "chunk length prefix truncated"}
}

func errShortChunkBody(want int) error {
	return &Error{msg: fmt.Sprintf("chunk body truncated: want %d bytes", want)}
}
