package synth

import "strings"

// escapable lists the characters that form a valid escape sequence after a
// backslash in a locale file value.
const escapable = `nrt"'\`

// EscapeValue prepares a translation value for embedding in a double-quoted
// assignment line. Literal newline, carriage-return and tab characters become
// their textual escape sequences, and unescaped quote or backslash characters
// are escaped. Sequences that are already escaped pass through untouched, so
// re-saving never double-escapes.
func EscapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			if i+1 < len(s) && strings.IndexByte(escapable, s[i+1]) >= 0 {
				// Already an escape sequence, keep it as written.
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
