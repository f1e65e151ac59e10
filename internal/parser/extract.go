package parser

import (
	"regexp"
	"strings"
)

// DefaultTable is the conventional lookup-table identifier for glue strings.
const DefaultTable = "L"

// Reference is one key reference found on a source line.
type Reference struct {
	Key string
	// Concatenated means the key expression is built from sub-expressions
	// inside the brackets.
	Concatenated bool
	// TemplateUsed means the reference is the first argument of a
	// formatting-function call.
	TemplateUsed bool
}

// Extractor scans source lines for lookup-table key references of the form
// <table>["<key>"]. It recognizes a small set of textual patterns and treats
// everything else as opaque; malformed lines are simply not matched.
type Extractor struct {
	table      string
	refPattern *regexp.Regexp
}

// templateCallPattern captures the function name immediately preceding an
// open parenthesis, as in `string.format(`.
var templateCallPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.:]*)\s*\(\s*$`)

// NewExtractor returns an extractor for the default "L" table.
func NewExtractor() *Extractor {
	return NewExtractorForTable(DefaultTable)
}

// NewExtractorForTable returns an extractor for a custom lookup identifier.
func NewExtractorForTable(table string) *Extractor {
	return &Extractor{
		table:      table,
		refPattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(table) + `\s*\[`),
	}
}

// ScanLine returns every key reference on one line, plus whether the line is
// itself a key assignment (as opposed to a mere reference).
func (e *Extractor) ScanLine(line string) ([]Reference, bool) {
	refs, assign, _, _ := e.scanLine(stripComment(line))
	return refs, assign
}

// scanLine expects the comment already stripped. It additionally reports the
// unescaped literal value of an assignment line, when the assigned expression
// starts with a string literal.
func (e *Extractor) scanLine(line string) (refs []Reference, assignment bool, value string, hasValue bool) {
	locs := e.refPattern.FindAllStringIndex(line, -1)
	searchFrom := 0
	for _, loc := range locs {
		if loc[0] < searchFrom || isInsideString(line, loc[0]) {
			continue
		}
		open := loc[1] - 1
		close := matchingBracket(line, open)
		if close < 0 {
			// Unbalanced brackets, leave the rest of the line unmatched.
			break
		}
		searchFrom = close + 1

		lit, ok := firstStringLiteral(line, open+1)
		if !ok || lit.end >= close {
			// Dynamic lookup without a literal key, nothing to record.
			continue
		}

		ref := Reference{
			Key:          Unescape(lit.text),
			Concatenated: hasConcatenationInSpan(line, open, close),
			TemplateUsed: isTemplateCall(line[:loc[0]]),
		}
		refs = append(refs, ref)

		if loc[0] == len(line)-len(strings.TrimLeft(line, " \t")) {
			// Reference starts the line; an assignment when followed by a
			// single "=".
			rest := strings.TrimLeft(line[close+1:], " \t")
			if strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==") {
				assignment = true
				expr := strings.TrimLeft(rest[1:], " \t")
				if len(expr) > 0 && (expr[0] == '"' || expr[0] == '\'') {
					if vlit, vok := firstStringLiteral(expr, 0); vok && vlit.start == 0 {
						value = Unescape(vlit.text)
						hasValue = true
					}
				}
			}
		}
	}
	return refs, assignment, value, hasValue
}

// isTemplateCall reports whether the text preceding a reference ends in a
// formatting-function invocation, making the reference its first argument.
func isTemplateCall(prefix string) bool {
	m := templateCallPattern.FindStringSubmatch(prefix)
	if m == nil {
		return false
	}
	name := strings.ToLower(m[1])
	return name == "format" ||
		strings.HasSuffix(name, ".format") ||
		strings.HasSuffix(name, ":format")
}

// ExtractLines scans a whole file's lines into a per-file ParseResult.
//
// Occurrence counting increments once per match. The first time a key is seen
// in the file without a concatenation or template flag, a single file-level
// location (line 0) is recorded so the key stays resolvable to the files that
// mention it. Assignment lines with a literal value contribute the key's
// format parameters.
func (e *Extractor) ExtractLines(file string, lines []string) *ParseResult {
	res := NewParseResult()
	seen := make(map[string]bool)

	for n, raw := range lines {
		lineNo := n + 1
		line := stripComment(raw)
		refs, assignment, value, hasValue := e.scanLine(line)

		for i, ref := range refs {
			g := res.ensure(ref.Key)
			g.Occurrences++

			id := strings.ToLower(ref.Key)
			first := !seen[id]
			seen[id] = true

			if ref.Concatenated {
				g.HasConcatenation = true
				g.ConcatLocations = addLocation(g.ConcatLocations, KeyOccurrence{File: file, Line: lineNo})
			}
			if ref.TemplateUsed {
				g.UsedInTemplateCall = true
				g.TemplateLocations = addLocation(g.TemplateLocations, KeyOccurrence{File: file, Line: lineNo})
			}
			if first && !ref.Concatenated && !ref.TemplateUsed {
				g.ConcatLocations = addLocation(g.ConcatLocations, KeyOccurrence{File: file, Line: 0})
			}

			if i == 0 && assignment && hasValue && len(g.Parameters) == 0 {
				g.Parameters = ParseFormatParameters(value)
			}
		}
	}
	return res
}

// ParseAssignment extracts the key and unescaped literal value from a locale
// assignment line such as `L["Key"] = "Value"`. ok is false for any line that
// is not an assignment with a literal value.
func (e *Extractor) ParseAssignment(line string) (key, value string, ok bool) {
	refs, assignment, val, hasValue := e.scanLine(stripComment(line))
	if !assignment || !hasValue || len(refs) == 0 {
		return "", "", false
	}
	return refs[0].Key, val, true
}

// IsAssignment reports whether the line assigns a value to a key, literal or not.
func (e *Extractor) IsAssignment(line string) (key string, ok bool) {
	refs, assignment, _, _ := e.scanLine(stripComment(line))
	if !assignment || len(refs) == 0 {
		return "", false
	}
	return refs[0].Key, true
}
