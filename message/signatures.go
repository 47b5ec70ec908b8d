// Package message implements the Bolt message set: each message is a
// packstream Structure whose signature identifies a request or a reply, and
// whose allowed set of protocol versions is fixed by the table in version.go.
package message

// Client message signatures. INIT and HELLO, and the unmetadata'd/metadata'd
// forms of RUN/DISCARD/PULL, share a signature across versions — the version
// decides which builder is legal, not the byte on the wire.
const (
	SigInit             byte = 0x01
	SigHello            byte = 0x01
	SigRun              byte = 0x10
	SigRunWithMetadata  byte = 0x10
	SigDiscardAll       byte = 0x2F
	SigDiscard          byte = 0x2F
	SigPullAll          byte = 0x3F
	SigPull             byte = 0x3F
	SigAckFailure       byte = 0x0E
	SigReset            byte = 0x0F
	SigBegin            byte = 0x11
	SigCommit           byte = 0x12
	SigRollback         byte = 0x13
	SigGoodbye          byte = 0x02
)

// Server message signatures.
const (
	SigSuccess byte = 0x70
	SigRecord  byte = 0x71
	SigIgnored byte = 0x7E
	SigFailure byte = 0x7F
)
