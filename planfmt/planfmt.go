// Package planfmt runs EXPLAIN/PROFILE statements over a boltclient.Client
// and formats the nested plan tree Neo4j returns into indented text.
package planfmt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sorablue/boltwire/boltclient"
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
)

// Mode selects between EXPLAIN (plan only) and PROFILE (plan plus actual
// execution counters).
type Mode int

const (
	ExplainMode Mode = iota
	ProfileMode
)

func (m Mode) String() string {
	switch m {
	case ExplainMode:
		return "EXPLAIN"
	case ProfileMode:
		return "PROFILE"
	}
	return "EXPLAIN"
}

func (m Mode) prefix() string {
	return m.String() + " "
}

// metadataKey is the SUCCESS metadata key Neo4j attaches the plan tree
// under; "profile" replaces "plan" when PROFILE was used and carries
// per-operator db-hit/row counters alongside the static tree.
func (m Mode) metadataKey() string {
	if m == ProfileMode {
		return "profile"
	}
	return "plan"
}

// Result holds a formatted plan and the wall-clock time the statement took.
type Result struct {
	Plan     string
	Duration time.Duration
}

// Client runs EXPLAIN/PROFILE statements over an already-handshaken
// boltclient.Client.
type Client struct {
	c *boltclient.Client
}

// NewClient wraps an existing boltclient.Client. The caller owns its
// lifecycle (Handshake/Hello and Close).
func NewClient(c *boltclient.Client) *Client {
	return &Client{c: c}
}

// Run executes statement prefixed with EXPLAIN or PROFILE and formats the
// resulting plan tree.
func (c *Client) Run(_ context.Context, mode Mode, statement string, params map[string]packstream.Value) (*Result, error) {
	start := time.Now()

	reply, err := c.c.RunWithMetadata(mode.prefix()+statement, params, nil)
	if err != nil {
		return nil, fmt.Errorf("planfmt: run: %w", err)
	}
	if reply.Signature != message.SigSuccess {
		return nil, fmt.Errorf("planfmt: run: statement rejected")
	}

	pr, err := c.c.PullAll()
	if err != nil {
		return nil, fmt.Errorf("planfmt: pull: %w", err)
	}
	if pr.Terminal.Signature != message.SigSuccess {
		return nil, fmt.Errorf("planfmt: pull: statement rejected")
	}

	success, err := message.ParseSuccess(pr.Terminal)
	if err != nil {
		return nil, fmt.Errorf("planfmt: parse success: %w", err)
	}

	root, ok := success.Metadata[mode.metadataKey()]
	if !ok {
		return nil, fmt.Errorf("planfmt: no %q in reply metadata", mode.metadataKey())
	}
	planMap, ok := root.Map()
	if !ok {
		return nil, fmt.Errorf("planfmt: %q metadata is not a map", mode.metadataKey())
	}

	var b strings.Builder
	formatOperator(&b, planMap, 0)

	return &Result{
		Plan:     strings.TrimRight(b.String(), "\n"),
		Duration: time.Since(start),
	}, nil
}

// formatOperator writes one operator node and its children, indented two
// spaces per depth, to b.
func formatOperator(b *strings.Builder, op map[string]packstream.Value, depth int) {
	indent := strings.Repeat("  ", depth)

	name := "?"
	if v, ok := op["operatorType"]; ok {
		if s, ok := v.Str(); ok {
			name = s
		}
	}
	b.WriteString(indent)
	b.WriteString("+-")
	b.WriteString(name)

	if args, ok := op["args"]; ok {
		if argMap, ok := args.Map(); ok {
			if m := formatArgs(argMap); m != "" {
				b.WriteString(" (")
				b.WriteString(m)
				b.WriteString(")")
			}
		}
	}
	b.WriteByte('\n')

	if children, ok := op["children"]; ok {
		if list, ok := children.List(); ok {
			for _, child := range list {
				if cm, ok := child.Map(); ok {
					formatOperator(b, cm, depth+1)
				}
			}
		}
	}
}

// formatArgs renders the well-known EstimatedRows/Rows/DbHits/Memory counters a
// plan or profile operator carries, skipping anything else so unfamiliar
// metadata does not clutter the tree.
func formatArgs(args map[string]packstream.Value) string {
	var parts []string
	for _, key := range []string{"EstimatedRows", "Rows", "DbHits", "Memory"} {
		v, ok := args[key]
		if !ok {
			continue
		}
		if n, ok := v.Int(); ok {
			parts = append(parts, fmt.Sprintf("%s=%d", key, n))
			continue
		}
		if f, ok := v.Float(); ok {
			parts = append(parts, fmt.Sprintf("%s=%.1f", key, f))
		}
	}
	return strings.Join(parts, ", ")
}
