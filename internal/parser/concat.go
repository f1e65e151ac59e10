package parser

// hasConcatenationInSpan reports whether the ".." operator occurs between
// open and close (exclusive), outside any string literal. Only concatenation
// inside the key's bracket span means the key is built dynamically; ".."
// anywhere else on the line merely combines the lookup result with other text
// and must not set the flag.
func hasConcatenationInSpan(line string, open, close int) bool {
	if open < 0 || close > len(line) || open >= close {
		return false
	}
	var quote byte
	for i := open; i < close-1; i++ {
		ch := line[i]
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
		case '.':
			if line[i+1] == '.' {
				return true
			}
		}
	}
	return false
}
