// Package synth regenerates locale files from edited translations while
// preserving the surrounding hand-maintained structure.
package synth

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"glue-localizer/internal/parser"
	"glue-localizer/internal/textutil"
)

// WarningMarker is prepended when an existing file has no recognizable
// structure. The file content itself is never touched in that case.
const WarningMarker = "-- WARNING: no localization assignments recognized in this file; content left unchanged"

const guardIndent = "    "

// Synthesizer rewrites locale files line by line. It understands two file
// shapes: a locale-guarded block (`if locale == "deDE" then ... end`) and a
// base file assigning unconditionally.
type Synthesizer struct {
	table string
	ext   *parser.Extractor
}

func New() *Synthesizer {
	return NewForTable(parser.DefaultTable)
}

func NewForTable(table string) *Synthesizer {
	return &Synthesizer{table: table, ext: parser.NewExtractorForTable(table)}
}

// Synthesize produces the regenerated file lines. codes lists the locale
// codes the file's guard covers: one entry for a plain locale file, every
// bucket variant for a machine-translation file. A nil existing slice means
// the file does not exist yet and the fixed template is emitted instead.
func (s *Synthesizer) Synthesize(codes []string, existing []string, translations map[string]string) []string {
	if existing == nil {
		return s.NewFileLines(codes, translations)
	}

	if gs, ge, ok := s.findGuardedBlock(codes, existing); ok {
		body, appended := s.rewriteRegion(existing[gs+1:ge], translations, true, guardIndent)
		out := make([]string, 0, len(existing)+len(appended))
		out = append(out, existing[:gs+1]...)
		out = append(out, body...)
		out = append(out, appended...)
		out = append(out, existing[ge:]...)
		return out
	}

	first, last, ok := s.assignmentSpan(existing)
	if !ok {
		// Nothing recognizable: never guess, never delete.
		out := make([]string, 0, len(existing)+1)
		out = append(out, WarningMarker)
		out = append(out, existing...)
		return out
	}

	indent := defaultIndent(existing[first:last+1], s.ext)
	body, appended := s.rewriteRegion(existing[first:last+1], translations, false, indent)
	out := make([]string, 0, len(existing)+len(appended))
	out = append(out, existing[:first]...)
	out = append(out, body...)
	out = append(out, appended...)
	out = append(out, existing[last+1:]...)
	return out
}

// findGuardedBlock locates a conditional block testing the current locale
// against one of codes. The block ends at the first subsequent line whose
// trimmed content is exactly "end".
func (s *Synthesizer) findGuardedBlock(codes []string, lines []string) (open, close int, ok bool) {
	guard := guardPattern(codes)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "if") || !guard.MatchString(line) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "end" {
				return i, j, true
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}

func guardPattern(codes []string) *regexp.Regexp {
	quoted := make([]string, len(codes))
	for i, c := range codes {
		quoted[i] = regexp.QuoteMeta(c)
	}
	return regexp.MustCompile(`(?:locale|GetLocale\(\))\s*==\s*"(?:` + strings.Join(quoted, "|") + `)"`)
}

// assignmentSpan returns the contiguous run from the first to the last
// assignment line in the whole file.
func (s *Synthesizer) assignmentSpan(lines []string) (first, last int, ok bool) {
	first, last = -1, -1
	for i, line := range lines {
		if _, isAssign := s.ext.IsAssignment(line); isAssign {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}

// rewriteRegion applies the keep/replace/drop rules to the editable region and
// returns the rewritten lines plus the sorted appendix of brand-new keys.
//
// guarded controls the orphan rule: inside a guarded block an assignment whose
// key is absent from the translation map is preserved verbatim; in a
// non-guarded file it is dropped as an orphan. The two on-disk file shapes
// genuinely differ here.
func (s *Synthesizer) rewriteRegion(region []string, translations map[string]string, guarded bool, appendIndent string) (body, appended []string) {
	lookup := newValueLookup(translations)
	emitted := make(map[string]bool)
	matched := make(map[string]bool)

	for _, line := range region {
		key, isAssign := s.ext.IsAssignment(line)
		if !isAssign {
			body = append(body, line)
			continue
		}

		id := strings.ToLower(key)
		matched[id] = true
		if emitted[id] {
			// Duplicate within the file: collapsed to the first emitted line.
			continue
		}
		emitted[id] = true

		newVal, inMap := lookup.get(key)
		switch {
		case !inMap:
			if guarded {
				body = append(body, line)
			}
			// Non-guarded files purge unknown keys.
		case strings.TrimSpace(newVal) == "":
			// Empty translation is the deletion mechanism.
		default:
			if _, oldVal, hasOld := s.ext.ParseAssignment(line); hasOld && oldVal == newVal {
				// Unchanged value: keep the original bytes, avoiding
				// needless diffs.
				body = append(body, line)
			} else {
				body = append(body, s.assignmentLine(textutil.Indentation(line), key, newVal))
			}
		}
	}

	for _, key := range sortedKeys(translations) {
		if matched[strings.ToLower(key)] || strings.TrimSpace(translations[key]) == "" {
			continue
		}
		appended = append(appended, s.assignmentLine(appendIndent, key, translations[key]))
	}
	return body, appended
}

// NewFileLines emits the fixed template for a locale file that does not exist
// yet: header, locale detection, a guard covering codes, sorted assignments,
// and the closing line.
func (s *Synthesizer) NewFileLines(codes []string, translations map[string]string) []string {
	tests := make([]string, len(codes))
	for i, c := range codes {
		tests[i] = fmt.Sprintf("locale == %q", c)
	}

	lines := []string{
		fmt.Sprintf("local _, %s = ...", s.table),
		"local locale = GetLocale()",
		"if " + strings.Join(tests, " or ") + " then",
	}
	for _, key := range sortedKeys(translations) {
		if strings.TrimSpace(translations[key]) == "" {
			continue
		}
		lines = append(lines, s.assignmentLine(guardIndent, key, translations[key]))
	}
	return append(lines, "end")
}

func (s *Synthesizer) assignmentLine(indent, key, value string) string {
	return fmt.Sprintf(`%s%s["%s"] = "%s"`, indent, s.table, EscapeValue(key), EscapeValue(value))
}

// defaultIndent infers the appendix indentation from the region's own
// assignment lines.
func defaultIndent(region []string, ext *parser.Extractor) string {
	indent := ""
	for _, line := range region {
		if _, ok := ext.IsAssignment(line); ok {
			indent = textutil.Indentation(line)
		}
	}
	return indent
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}

// valueLookup resolves translation-map entries with the same case-insensitive
// key identity the extractor uses, preferring an exact match.
type valueLookup struct {
	exact   map[string]string
	lowered map[string]string
}

func newValueLookup(m map[string]string) valueLookup {
	l := valueLookup{exact: m, lowered: make(map[string]string, len(m))}
	for k := range m {
		l.lowered[strings.ToLower(k)] = k
	}
	return l
}

func (l valueLookup) get(key string) (string, bool) {
	if v, ok := l.exact[key]; ok {
		return v, true
	}
	if orig, ok := l.lowered[strings.ToLower(key)]; ok {
		return l.exact[orig], true
	}
	return "", false
}
