// Package locale holds the static catalog of supported game locales.
package locale

import "sort"

// Locale describes one supported game client locale.
type Locale struct {
	// Code is the full client locale code, e.g. "deDE".
	Code string
	// Name is the human-readable display name.
	Name string
	// Base is the language-only grouping shared by locale variants, e.g. "pt".
	Base string
	// Provider is the translation-provider language code, e.g. "pt".
	Provider string
	// SortOrder fixes the display ordering across the tool.
	SortOrder int
}

var catalog = []Locale{
	{Code: "enUS", Name: "English (US)", Base: "en", Provider: "en", SortOrder: 1},
	{Code: "deDE", Name: "German", Base: "de", Provider: "de", SortOrder: 2},
	{Code: "esES", Name: "Spanish (Spain)", Base: "es", Provider: "es", SortOrder: 3},
	{Code: "esMX", Name: "Spanish (Mexico)", Base: "es", Provider: "es", SortOrder: 4},
	{Code: "frFR", Name: "French", Base: "fr", Provider: "fr", SortOrder: 5},
	{Code: "itIT", Name: "Italian", Base: "it", Provider: "it", SortOrder: 6},
	{Code: "koKR", Name: "Korean", Base: "ko", Provider: "ko", SortOrder: 7},
	{Code: "ptBR", Name: "Portuguese (Brazil)", Base: "pt", Provider: "pt", SortOrder: 8},
	{Code: "ptPT", Name: "Portuguese (Portugal)", Base: "pt", Provider: "pt", SortOrder: 9},
	{Code: "ruRU", Name: "Russian", Base: "ru", Provider: "ru", SortOrder: 10},
	{Code: "zhCN", Name: "Chinese (Simplified)", Base: "zh", Provider: "zh-CN", SortOrder: 11},
	{Code: "zhTW", Name: "Chinese (Traditional)", Base: "zh", Provider: "zh-TW", SortOrder: 12},
}

var byCode = func() map[string]Locale {
	m := make(map[string]Locale, len(catalog))
	for _, l := range catalog {
		m[l.Code] = l
	}
	return m
}()

// All returns every supported locale in display order.
func All() []Locale {
	out := make([]Locale, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// ByCode looks up a locale by its full code.
func ByCode(code string) (Locale, bool) {
	l, ok := byCode[code]
	return l, ok
}

// IsSupported reports whether code is a known locale code.
func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// GTCode returns the machine-translation bucket code for a locale. Buckets are
// keyed by base language, except the Chinese variants: simplified and
// traditional script cannot share one bucket, so each keeps its full code.
func GTCode(code string) (string, bool) {
	l, ok := byCode[code]
	if !ok {
		return "", false
	}
	if l.Base == "zh" {
		return l.Code, true
	}
	return l.Base, true
}

// GTCodes returns every distinct machine-translation bucket code, in display order.
func GTCodes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range All() {
		gt, _ := GTCode(l.Code)
		if !seen[gt] {
			seen[gt] = true
			out = append(out, gt)
		}
	}
	return out
}

// VariantsOf returns the locale codes covered by a machine-translation bucket,
// in display order. Unknown bucket codes return nil.
func VariantsOf(gtCode string) []string {
	var out []string
	for _, l := range All() {
		if gt, _ := GTCode(l.Code); gt == gtCode {
			out = append(out, l.Code)
		}
	}
	return out
}

// ProviderCode returns the translation-provider language code for a
// machine-translation bucket code.
func ProviderCode(gtCode string) (string, bool) {
	for _, l := range catalog {
		if gt, _ := GTCode(l.Code); gt == gtCode {
			return l.Provider, true
		}
	}
	return "", false
}
