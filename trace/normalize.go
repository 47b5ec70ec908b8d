package trace

import "strings"

// collapseLiterals replaces string and numeric literals in a Cypher
// statement with placeholders so structurally identical statements compare
// equal regardless of the literal values inlined into them. Named
// parameters ($name) are left untouched, since that is how Cypher callers
// are expected to pass values in the first place. Consecutive whitespace is
// collapsed to a single space.
func collapseLiterals(cypher string) string {
	if cypher == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(cypher))

	i := 0
	prevSpace := false
	for i < len(cypher) {
		ch := cypher[i]

		if ch == '\'' || ch == '"' {
			i = skipQuoted(&b, cypher, i, ch)
			prevSpace = false
			continue
		}

		if ch == '$' && i+1 < len(cypher) && isNameStart(cypher[i+1]) {
			i = keepNamedParam(&b, cypher, i)
			prevSpace = false
			continue
		}

		if isDigit(ch) && (i == 0 || isBoundary(cypher[i-1])) {
			if next, ok := skipNumber(&b, cypher, i); ok {
				i = next
				prevSpace = false
				continue
			}
		}

		if isSpace(ch) {
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
				prevSpace = true
			}
			i++
			continue
		}

		b.WriteByte(ch)
		i++
		prevSpace = false
	}

	return strings.TrimRight(b.String(), " ")
}

func skipQuoted(b *strings.Builder, s string, pos int, quote byte) int {
	j := pos + 1
	for j < len(s) {
		if s[j] == '\\' && j+1 < len(s) {
			j += 2
			continue
		}
		if s[j] == quote {
			j++
			break
		}
		j++
	}
	b.WriteByte(quote)
	b.WriteByte('?')
	b.WriteByte(quote)
	return j
}

func keepNamedParam(b *strings.Builder, s string, pos int) int {
	b.WriteByte('$')
	j := pos + 1
	for j < len(s) && isNameByte(s[j]) {
		b.WriteByte(s[j])
		j++
	}
	return j
}

func skipNumber(b *strings.Builder, s string, pos int) (int, bool) {
	j := pos + 1
	for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
		j++
	}
	if j >= len(s) || isBoundary(s[j]) {
		b.WriteByte('?')
		return j, true
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isBoundary(c byte) bool {
	return isSpace(c) ||
		c == ',' || c == '(' || c == ')' || c == '[' || c == ']' ||
		c == '{' || c == '}' || c == '=' ||
		c == '<' || c == '>' || c == '+' || c == '-' ||
		c == '*' || c == '/' || c == ';'
}
