package parser

import (
	"regexp"
	"strconv"
)

// specifierPattern recognizes printf-style conversions: an optional positional
// N$ index, a flags run, width, precision and one conversion character.
// A space is intentionally absent from the flags class: "100% speed" must not
// yield a parameter for "% s".
var specifierPattern = regexp.MustCompile(`%(\d+\$)?([-+0#]*)(\d*)(?:\.(\d+))?([sdioxXeEfgGcuaA%])`)

// ParseFormatParameters extracts the ordered list of conversion specifiers
// from an already-unescaped literal value.
//
// Specifiers without an explicit positional index are numbered sequentially
// from 1; an explicit N$ index is used verbatim and does not advance the
// running counter. "%%" is recorded with position 0 and never counted as a
// value-consuming parameter.
func ParseFormatParameters(value string) []FormatParameter {
	matches := specifierPattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return nil
	}

	var params []FormatParameter
	seq := 1
	for _, m := range matches {
		raw := m[0]
		conv := m[5]

		p := FormatParameter{
			Raw:       raw,
			Width:     -1,
			Precision: -1,
		}
		if m[3] != "" {
			p.Width, _ = strconv.Atoi(m[3])
		}
		if m[4] != "" {
			p.Precision, _ = strconv.Atoi(m[4])
		}

		if conv == "%" {
			p.Kind = KindPercent
			p.Position = 0
			params = append(params, p)
			continue
		}

		p.Kind = kindForConversion(conv)
		if m[1] != "" {
			idx, _ := strconv.Atoi(m[1][:len(m[1])-1])
			p.Position = idx
			p.Positional = true
		} else {
			p.Position = seq
			seq++
		}
		params = append(params, p)
	}
	return params
}

// SpecifierSpans returns the [start, end) byte spans of every conversion
// specifier in value, using the same grammar as ParseFormatParameters.
func SpecifierSpans(value string) [][]int {
	return specifierPattern.FindAllStringIndex(value, -1)
}

func kindForConversion(conv string) ParameterKind {
	switch conv {
	case "s":
		return KindString
	case "d", "i":
		return KindInteger
	case "f":
		return KindFloat
	case "c":
		return KindCharacter
	case "u":
		return KindUnsigned
	case "x", "X":
		return KindHex
	case "o":
		return KindOctal
	case "e", "E":
		return KindExponential
	default: // g, G, a, A
		return KindGeneral
	}
}
