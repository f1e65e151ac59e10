package parser

import "strings"

// stringSpan marks a quoted literal inside a line: start/end are the quote
// positions, text is the content between them (still escaped).
type stringSpan struct {
	start, end int
	text       string
}

// firstStringLiteral finds the first complete quoted literal (double or
// single quoted) in s at or after from. Unterminated literals are not matched.
func firstStringLiteral(s string, from int) (stringSpan, bool) {
	for i := from; i < len(s); i++ {
		ch := s[i]
		if ch != '"' && ch != '\'' {
			continue
		}
		for j := i + 1; j < len(s); j++ {
			if s[j] == '\\' {
				j++
				continue
			}
			if s[j] == ch {
				return stringSpan{start: i, end: j, text: s[i+1 : j]}, true
			}
		}
		return stringSpan{}, false
	}
	return stringSpan{}, false
}

// matchingBracket returns the index of the ']' closing the '[' at open,
// skipping brackets inside string literals. Returns -1 when unbalanced.
func matchingBracket(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// isInsideString reports whether position idx falls inside a string literal.
func isInsideString(line string, idx int) bool {
	inDouble := false
	inSingle := false
	for i := 0; i < idx && i < len(line); i++ {
		ch := line[i]
		if ch == '\\' {
			i++
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
		}
	}
	return inDouble || inSingle
}

// stripComment truncates a line at the "--" comment marker when the marker is
// not inside a string literal.
func stripComment(line string) string {
	from := 0
	for {
		idx := strings.Index(line[from:], "--")
		if idx < 0 {
			return line
		}
		idx += from
		if !isInsideString(line, idx) {
			return line[:idx]
		}
		from = idx + 2
	}
}

// Unescape converts the textual escape sequences of a quoted literal into
// their literal characters. Unknown escapes keep the escaped character.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
