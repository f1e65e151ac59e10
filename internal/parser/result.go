package parser

import (
	"sort"
	"strings"
)

// LocationCap bounds every per-key location list, even after merging across files.
const LocationCap = 100

// KeyOccurrence pins a key reference to a file and line. Line 0 means the file
// references the key but no specific line was flagged.
type KeyOccurrence struct {
	File string
	Line int
}

// ParameterKind classifies a printf-style conversion.
type ParameterKind int

const (
	KindString ParameterKind = iota
	KindInteger
	KindFloat
	KindCharacter
	KindUnsigned
	KindHex
	KindOctal
	KindExponential
	KindGeneral
	KindPercent
)

func (k ParameterKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindCharacter:
		return "character"
	case KindUnsigned:
		return "unsigned"
	case KindHex:
		return "hex"
	case KindOctal:
		return "octal"
	case KindExponential:
		return "exponential"
	case KindGeneral:
		return "general"
	case KindPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// FormatParameter is one parsed conversion specifier from a literal value.
type FormatParameter struct {
	// Position is the 1-based sequential slot, or the explicit index when the
	// specifier used positional N$ syntax. Literal-percent specifiers hold 0.
	Position int
	Kind     ParameterKind
	// Raw is the specifier text as it appeared, e.g. "%.2f".
	Raw string
	// Width is the field width, -1 when absent.
	Width int
	// Precision is the precision, -1 when absent.
	Precision int
	// Positional marks an explicit N$ index.
	Positional bool
}

// GlueInfo accumulates everything known about one localization key.
// Key identity is case-insensitive; Key keeps the first-seen spelling.
type GlueInfo struct {
	Key                string
	HasConcatenation   bool
	UsedInTemplateCall bool
	Occurrences        int
	ConcatLocations    []KeyOccurrence
	TemplateLocations  []KeyOccurrence
	Parameters         []FormatParameter
}

// ParameterCount returns the number of value-consuming parameters,
// excluding literal-percent entries.
func (g *GlueInfo) ParameterCount() int {
	n := 0
	for _, p := range g.Parameters {
		if p.Kind != KindPercent {
			n++
		}
	}
	return n
}

func addLocation(list []KeyOccurrence, loc KeyOccurrence) []KeyOccurrence {
	if len(list) >= LocationCap {
		return list
	}
	return append(list, loc)
}

// ParseResult maps keys to their accumulated GlueInfo for one file, or for a
// whole directory after merging.
type ParseResult struct {
	entries map[string]*GlueInfo
}

func NewParseResult() *ParseResult {
	return &ParseResult{entries: make(map[string]*GlueInfo)}
}

func (r *ParseResult) ensure(key string) *GlueInfo {
	id := strings.ToLower(key)
	if g, ok := r.entries[id]; ok {
		return g
	}
	g := &GlueInfo{Key: key}
	r.entries[id] = g
	return g
}

// Get returns the info for a key, matched case-insensitively.
func (r *ParseResult) Get(key string) (*GlueInfo, bool) {
	g, ok := r.entries[strings.ToLower(key)]
	return g, ok
}

func (r *ParseResult) Len() int { return len(r.entries) }

// Keys returns all key spellings sorted case-insensitively.
func (r *ParseResult) Keys() []string {
	out := make([]string, 0, len(r.entries))
	for _, g := range r.entries {
		out = append(out, g.Key)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Entries returns all infos in key order.
func (r *ParseResult) Entries() []*GlueInfo {
	out := make([]*GlueInfo, 0, len(r.entries))
	for _, key := range r.Keys() {
		g, _ := r.Get(key)
		out = append(out, g)
	}
	return out
}

// Concatenated returns keys flagged as dynamically built. Pure filter.
func (r *ParseResult) Concatenated() []*GlueInfo {
	return r.filter(func(g *GlueInfo) bool { return g.HasConcatenation })
}

// NonConcatenated returns keys never seen with in-bracket concatenation.
func (r *ParseResult) NonConcatenated() []*GlueInfo {
	return r.filter(func(g *GlueInfo) bool { return !g.HasConcatenation })
}

// TemplateUsed returns keys used as the first argument of a formatting call.
func (r *ParseResult) TemplateUsed() []*GlueInfo {
	return r.filter(func(g *GlueInfo) bool { return g.UsedInTemplateCall })
}

func (r *ParseResult) filter(keep func(*GlueInfo) bool) []*GlueInfo {
	var out []*GlueInfo
	for _, g := range r.Entries() {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

// Merge folds src into r. Occurrence counts add and flags combine with OR, so
// the outcome is order-independent; only which locations survive the cap
// depends on merge order (first seen wins).
func (r *ParseResult) Merge(src *ParseResult) {
	if src == nil {
		return
	}
	for id, sg := range src.entries {
		tg, ok := r.entries[id]
		if !ok {
			cp := *sg
			cp.ConcatLocations = append([]KeyOccurrence(nil), sg.ConcatLocations...)
			cp.TemplateLocations = append([]KeyOccurrence(nil), sg.TemplateLocations...)
			cp.Parameters = append([]FormatParameter(nil), sg.Parameters...)
			if len(cp.ConcatLocations) > LocationCap {
				cp.ConcatLocations = cp.ConcatLocations[:LocationCap]
			}
			if len(cp.TemplateLocations) > LocationCap {
				cp.TemplateLocations = cp.TemplateLocations[:LocationCap]
			}
			r.entries[id] = &cp
			continue
		}
		tg.Occurrences += sg.Occurrences
		tg.HasConcatenation = tg.HasConcatenation || sg.HasConcatenation
		tg.UsedInTemplateCall = tg.UsedInTemplateCall || sg.UsedInTemplateCall
		for _, loc := range sg.ConcatLocations {
			tg.ConcatLocations = addLocation(tg.ConcatLocations, loc)
		}
		for _, loc := range sg.TemplateLocations {
			tg.TemplateLocations = addLocation(tg.TemplateLocations, loc)
		}
		if len(tg.Parameters) == 0 && len(sg.Parameters) > 0 {
			tg.Parameters = append([]FormatParameter(nil), sg.Parameters...)
		}
	}
}
