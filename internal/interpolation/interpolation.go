// Package interpolation shields format specifiers from the translation
// provider, which would otherwise mangle them.
package interpolation

import (
	"fmt"
	"strings"

	"glue-localizer/internal/parser"
)

// Mapping stores one protected specifier and its placeholder.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

// Protect replaces every conversion specifier (including positional forms
// like %1$s) with a {{var_N}} placeholder the provider will pass through
// untouched. The specifier grammar is the extractor's own, so the two can
// never disagree about what counts as a specifier.
func Protect(text string) (string, []Mapping) {
	spans := parser.SpecifierSpans(text)
	if len(spans) == 0 {
		return text, nil
	}

	mappings := make([]Mapping, len(spans))
	var b strings.Builder
	b.Grow(len(text) + len(spans)*8)
	prev := 0
	for i, span := range spans {
		placeholder := fmt.Sprintf("{{var_%d}}", i+1)
		mappings[i] = Mapping{
			Original:    text[span[0]:span[1]],
			Placeholder: placeholder,
			Index:       i + 1,
		}
		b.WriteString(text[prev:span[0]])
		b.WriteString(placeholder)
		prev = span[1]
	}
	b.WriteString(text[prev:])
	return b.String(), mappings
}

// Restore replaces the placeholders with their original specifiers.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
