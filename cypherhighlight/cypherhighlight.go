// Package cypherhighlight applies ANSI terminal syntax highlighting to
// Cypher statements and Neo4j EXPLAIN/PROFILE plan text, for use by the
// inspect TUI.
package cypherhighlight

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
)

func init() {
	// chroma has no Cypher lexer; its SQL lexer tokenizes keywords, strings
	// and numbers closely enough to give useful highlighting for a MATCH/
	// WHERE/RETURN statement, so it stands in rather than leaving Cypher
	// completely unhighlighted.
	lexer = lexers.Get("sql")
	formatter = formatters.Get("terminal256")
	style = styles.Get("monokai")
}

// Query returns s with ANSI terminal syntax highlighting applied. On error
// or empty input, s is returned unchanged.
func Query(s string) string {
	if s == "" {
		return s
	}

	iterator, err := lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return s
	}

	return strings.TrimRight(buf.String(), "\n")
}

var (
	operatorRe = regexp.MustCompile(
		`(?i)\b(NodeByLabelScan|NodeByIdSeek|AllNodesScan|NodeIndexSeek|NodeIndexScan|` +
			`NodeUniqueIndexSeek|Expand\(All\)|Expand\(Into\)|VarLengthExpand\(All\)|` +
			`OptionalExpand|Optional|Filter|Projection|Selection|Limit|Skip|Sort|Top|` +
			`EagerAggregation|Aggregation|Distinct|CartesianProduct|HashJoin|` +
			`NodeHashJoin|ValueHashJoin|Apply|AntiSemiApply|SemiApply|Union|` +
			`ProduceResults|Create|Merge|SetProperty|Delete)\b`,
	)
	metricsRe = regexp.MustCompile(`\((?:db hits|rows|EstimatedRows|Memory)[^)]*\)`)
	arrowRe   = regexp.MustCompile(`\+--|-->|<--`)
	summaryRe = regexp.MustCompile(`(?i)^\s*(Planning Time|Execution Time|Cypher Version|Compiler Runtime)\s*:`)

	boldStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// Plan returns Neo4j EXPLAIN/PROFILE output with ANSI highlighting applied.
// Operator names are bold, db-hits/rows metrics are dim, tree connectors are
// dim, and summary lines are bold.
func Plan(s string) string {
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if summaryRe.MatchString(line) {
			lines[i] = boldStyle.Render(line)
			continue
		}

		line = arrowRe.ReplaceAllStringFunc(line, func(m string) string {
			return dimStyle.Render(m)
		})
		line = metricsRe.ReplaceAllStringFunc(line, func(m string) string {
			return dimStyle.Render(m)
		})
		line = operatorRe.ReplaceAllStringFunc(line, func(m string) string {
			return boldStyle.Render(m)
		})
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}
