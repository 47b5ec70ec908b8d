package message

import "github.com/sorablue/boltwire/packstream"

// Init builds an INIT (v1/v2) message: client_name, auth_token.
func Init(clientName string, authToken map[string]packstream.Value) Message {
	return Message{
		Signature: SigInit,
		Fields: []packstream.Value{
			packstream.NewString(clientName),
			packstream.NewMap(authToken),
		},
	}
}

// Hello builds a HELLO (v3/v4) message: a single metadata map carrying
// user_agent, scheme, and credentials among its entries.
func Hello(extra map[string]packstream.Value) Message {
	return Message{
		Signature: SigHello,
		Fields:    []packstream.Value{packstream.NewMap(extra)},
	}
}

// Run builds a RUN (v1/v2) message: statement, parameters.
func Run(statement string, params map[string]packstream.Value) Message {
	return Message{
		Signature: SigRun,
		Fields: []packstream.Value{
			packstream.NewString(statement),
			packstream.NewMap(params),
		},
	}
}

// RunWithMetadata builds a RUN (v3/v4) message: statement, parameters, extra
// metadata (bookmarks, tx_timeout, mode, db, and so on).
func RunWithMetadata(statement string, params, extra map[string]packstream.Value) Message {
	return Message{
		Signature: SigRunWithMetadata,
		Fields: []packstream.Value{
			packstream.NewString(statement),
			packstream.NewMap(params),
			packstream.NewMap(extra),
		},
	}
}

// DiscardAll builds a DISCARD_ALL (v1/v2/v3) message: no fields.
func DiscardAll() Message {
	return Message{Signature: SigDiscardAll}
}

// Discard builds a DISCARD (v4) message carrying optional n (batch size)
// and qid (statement id) in its metadata map.
func Discard(extra map[string]packstream.Value) Message {
	return Message{
		Signature: SigDiscard,
		Fields:    []packstream.Value{packstream.NewMap(extra)},
	}
}

// PullAll builds a PULL_ALL (v1/v2/v3) message: no fields.
func PullAll() Message {
	return Message{Signature: SigPullAll}
}

// Pull builds a PULL (v4) message carrying optional n and qid.
func Pull(extra map[string]packstream.Value) Message {
	return Message{
		Signature: SigPull,
		Fields:    []packstream.Value{packstream.NewMap(extra)},
	}
}

// AckFailure builds an ACK_FAILURE (v1/v2) message: no fields.
func AckFailure() Message {
	return Message{Signature: SigAckFailure}
}

// Begin builds a BEGIN (v3/v4) message: extra metadata map.
func Begin(extra map[string]packstream.Value) Message {
	return Message{
		Signature: SigBegin,
		Fields:    []packstream.Value{packstream.NewMap(extra)},
	}
}

// Commit builds a COMMIT (v3/v4) message: no fields.
func Commit() Message {
	return Message{Signature: SigCommit}
}

// Rollback builds a ROLLBACK (v3/v4) message: no fields.
func Rollback() Message {
	return Message{Signature: SigRollback}
}

// Goodbye builds a GOODBYE (v3/v4) message: no fields.
func Goodbye() Message {
	return Message{Signature: SigGoodbye}
}

// Reset builds a RESET (all versions) message: no fields.
func Reset() Message {
	return Message{Signature: SigReset}
}
