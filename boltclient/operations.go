package boltclient

import (
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
)

// Init sends INIT (v1/v2): client_name, auth_token.
func (c *Client) Init(clientName string, authToken map[string]packstream.Value) (message.Message, error) {
	return c.exchange(message.MethodInit, message.Init(clientName, authToken))
}

// Hello sends HELLO (v3/v4): a metadata map (user_agent, scheme, ...).
func (c *Client) Hello(extra map[string]packstream.Value) (message.Message, error) {
	return c.exchange(message.MethodHello, message.Hello(extra))
}

// Run sends RUN (v1/v2): statement, parameters.
func (c *Client) Run(statement string, params map[string]packstream.Value) (message.Message, error) {
	return c.exchange(message.MethodRun, message.Run(statement, params))
}

// RunWithMetadata sends RUN (v3/v4): statement, parameters, extra metadata.
func (c *Client) RunWithMetadata(statement string, params, extra map[string]packstream.Value) (message.Message, error) {
	return c.exchange(message.MethodRunWithMetadata, message.RunWithMetadata(statement, params, extra))
}

// DiscardAll sends DISCARD_ALL (v1/v2/v3).
func (c *Client) DiscardAll() (message.Message, error) {
	return c.exchange(message.MethodDiscardAll, message.DiscardAll())
}

// Discard sends DISCARD (v4) with optional n/qid metadata.
func (c *Client) Discard(extra map[string]packstream.Value) (message.Message, error) {
	return c.exchange(message.MethodDiscard, message.Discard(extra))
}

// AckFailure sends ACK_FAILURE (v1/v2), clearing failed state on success.
func (c *Client) AckFailure() (message.Message, error) {
	return c.exchange(message.MethodAckFailure, message.AckFailure())
}

// Begin sends BEGIN (v3/v4) with extra transaction metadata.
func (c *Client) Begin(extra map[string]packstream.Value) (message.Message, error) {
	return c.exchange(message.MethodBegin, message.Begin(extra))
}

// Commit sends COMMIT (v3/v4).
func (c *Client) Commit() (message.Message, error) {
	return c.exchange(message.MethodCommit, message.Commit())
}

// Rollback sends ROLLBACK (v3/v4).
func (c *Client) Rollback() (message.Message, error) {
	return c.exchange(message.MethodRollback, message.Rollback())
}

// Goodbye sends GOODBYE (v3/v4). Advisory: not required for correctness,
// but a clean v3+ shutdown should send it before Close.
func (c *Client) Goodbye() (message.Message, error) {
	return c.exchange(message.MethodGoodbye, message.Goodbye())
}

// Reset sends RESET (all versions), aborting any executing request,
// discarding any undrained result stream, rolling back an open
// transaction, and clearing failed state.
func (c *Client) Reset() (message.Message, error) {
	return c.exchange(message.MethodReset, message.Reset())
}

// PullResult holds the terminal reply of a PULL_ALL/PULL together with any
// RECORD messages read before it.
type PullResult struct {
	Terminal message.Message
	Records  []message.Message
}

// PullAll sends PULL_ALL (v1/v2/v3) and reads RECORDs until the terminal
// SUCCESS, FAILURE, or IGNORED.
func (c *Client) PullAll() (PullResult, error) {
	return c.pull(message.MethodPullAll, message.PullAll())
}

// Pull sends PULL (v4) with optional n/qid metadata and reads RECORDs until
// the terminal reply.
func (c *Client) Pull(extra map[string]packstream.Value) (PullResult, error) {
	return c.pull(message.MethodPull, message.Pull(extra))
}

func (c *Client) pull(method message.Method, msg message.Message) (PullResult, error) {
	if !message.Allowed(method, c.version) {
		return PullResult{}, message.NewUnsupportedOperation(method, c.version)
	}
	if err := c.SendMessage(msg); err != nil {
		return PullResult{}, err
	}

	var records []message.Message
	for {
		reply, err := c.ReadMessage()
		if err != nil {
			return PullResult{}, err
		}
		if message.IsRecord(reply) {
			records = append(records, reply)
			continue
		}
		c.observe(method, reply)
		return PullResult{Terminal: reply, Records: records}, nil
	}
}

// Pipeline writes every message in msgs back-to-back with no intervening
// reads, then drains exactly one reply per message in order. A PULL_ALL/
// PULL entry's reply absorbs any RECORDs preceding its terminal message, so
// len(replies) == len(msgs) regardless of how many RECORDs were pipelined.
func (c *Client) Pipeline(msgs []message.Message) ([]PullResult, error) {
	for _, m := range msgs {
		if err := c.SendMessage(m); err != nil {
			return nil, err
		}
	}

	replies := make([]PullResult, len(msgs))
	for i, m := range msgs {
		if m.Signature == message.SigPullAll || m.Signature == message.SigPull {
			var records []message.Message
			for {
				reply, err := c.ReadMessage()
				if err != nil {
					return nil, err
				}
				if message.IsRecord(reply) {
					records = append(records, reply)
					continue
				}
				replies[i] = PullResult{Terminal: reply, Records: records}
				break
			}
		} else {
			reply, err := c.ReadMessage()
			if err != nil {
				return nil, err
			}
			replies[i] = PullResult{Terminal: reply}
		}
		if replies[i].Terminal.Signature == message.SigFailure {
			c.failed = true
		}
	}
	return replies, nil
}
