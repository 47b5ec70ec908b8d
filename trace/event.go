// Package trace describes Bolt request/reply pairs observed by boltproxy
// as Events, fans them out to subscribers through a Broker, and flags
// repeated statements as likely N+1 query patterns.
package trace

import (
	"time"

	"github.com/sorablue/boltwire/message"
)

// Event records one client request and the terminal reply it produced.
// It is built by boltproxy from the traffic it relays (cmd/bolt-tap then
// sets NPlus1), not by boltclient: boltclient has no dependency on this
// package, mirroring how the wire-protocol layer stays ignorant of
// whatever observes it.
type Event struct {
	SessionID string
	Method    message.Method
	Statement string
	Params    map[string]string
	StartTime time.Time
	Duration  time.Duration
	RecordCount int
	Signature byte
	Error     string
	NPlus1    bool
	SlowQuery bool
	Normalized string
}

// Normalize collapses literal-looking tokens in a Cypher statement so that
// structurally identical statements with different parameter values compare
// equal for N+1 detection. It is deliberately simple: Cypher parameters are
// normally passed out-of-band via Params, so the common case needs no
// rewriting at all; this only helps when a caller has inlined literals.
func Normalize(statement string) string {
	return collapseLiterals(statement)
}
