package message

import "github.com/sorablue/boltwire/packstream"

// Message is a Structure whose signature is one of the client/server
// signatures in signatures.go. Unlike packstream's graph/temporal
// structures, a Message's field count is not fixed per signature — RUN
// takes 2 fields in v1/v2 and 3 in v3/v4 — so arity is checked by each
// message-specific parser in response.go, not here.
type Message struct {
	Signature byte
	Fields    []packstream.Value
}

// Encode writes m as a structure: marker+signature, then each field value.
func Encode(c *packstream.Cursor, m Message) error {
	if err := packstream.WriteStructureHeader(c, len(m.Fields), m.Signature); err != nil {
		return err
	}
	for _, f := range m.Fields {
		if err := packstream.WriteValue(c, f); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads one Message: structure header, then that many field values.
func Decode(c *packstream.Cursor) (Message, error) {
	n, sig, err := packstream.ReadStructureHeader(c)
	if err != nil {
		return Message{}, err
	}
	fields := make([]packstream.Value, n)
	for i := 0; i < n; i++ {
		v, err := packstream.ReadValue(c)
		if err != nil {
			return Message{}, err
		}
		fields[i] = v
	}
	return Message{Signature: sig, Fields: fields}, nil
}
