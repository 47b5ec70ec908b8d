package message

import (
	"fmt"

	"github.com/sorablue/boltwire/packstream"
)

// InvalidConversionError is returned when a reply message doesn't have the
// shape its signature requires (e.g. a FAILURE missing "message").
type InvalidConversionError struct {
	From string
	To   string
}

func (e *InvalidConversionError) Error() string {
	return fmt.Sprintf("message: cannot convert %s into %s", e.From, e.To)
}

func errInvalidConversion(from, to string) error {
	return &InvalidConversionError{From: from, To: to}
}

// Success is a parsed SUCCESS reply.
type Success struct {
	Metadata map[string]packstream.Value
}

// ParseSuccess converts msg into a Success. msg.Signature must be SigSuccess.
func ParseSuccess(msg Message) (Success, error) {
	if msg.Signature != SigSuccess {
		return Success{}, errInvalidConversion("message", "Success")
	}
	if len(msg.Fields) != 1 {
		return Success{}, errInvalidConversion("message", "Success")
	}
	md, ok := msg.Fields[0].Map()
	if !ok {
		return Success{}, errInvalidConversion("message", "Success")
	}
	return Success{Metadata: md}, nil
}

// Failure is a parsed FAILURE reply.
type Failure struct {
	Code    string
	Message string
}

// ParseFailure converts msg into a Failure. msg.Signature must be SigFailure.
func ParseFailure(msg Message) (Failure, error) {
	if msg.Signature != SigFailure {
		return Failure{}, errInvalidConversion("message", "Failure")
	}
	if len(msg.Fields) != 1 {
		return Failure{}, errInvalidConversion("message", "Failure")
	}
	md, ok := msg.Fields[0].Map()
	if !ok {
		return Failure{}, errInvalidConversion("message", "Failure")
	}
	code, okCode := md["code"].Str()
	text, okText := md["message"].Str()
	if !okCode || !okText {
		return Failure{}, errInvalidConversion("message", "Failure")
	}
	return Failure{Code: code, Message: text}, nil
}

// IsIgnored reports whether msg is an IGNORED reply.
func IsIgnored(msg Message) bool { return msg.Signature == SigIgnored }

// IsRecord reports whether msg is a RECORD reply.
func IsRecord(msg Message) bool { return msg.Signature == SigRecord }

// ParseRecord returns a RECORD's single List field. msg.Signature must be
// SigRecord.
func ParseRecord(msg Message) ([]packstream.Value, error) {
	if msg.Signature != SigRecord {
		return nil, errInvalidConversion("message", "Record")
	}
	if len(msg.Fields) != 1 {
		return nil, errInvalidConversion("message", "Record")
	}
	fields, ok := msg.Fields[0].List()
	if !ok {
		return nil, errInvalidConversion("message", "Record")
	}
	return fields, nil
}

// IsTerminal reports whether msg is one of the three terminal reply kinds
// that end a pull (SUCCESS, FAILURE, or IGNORED) as opposed to a RECORD.
func IsTerminal(msg Message) bool {
	switch msg.Signature {
	case SigSuccess, SigFailure, SigIgnored:
		return true
	}
	return false
}
