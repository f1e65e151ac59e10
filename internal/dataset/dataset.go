// Package dataset holds the in-memory multi-locale translation store.
package dataset

import (
	"sort"
	"strings"
)

// Assignment is one key/value pair read from a locale file, in file order.
type Assignment struct {
	Key   string
	Value string
}

// DuplicateEntry records a key assigned more than once within one locale file.
type DuplicateEntry struct {
	Key string
	// Values lists every value seen for the key, in file order.
	Values []string
	// Count is the number of assignment lines for the key.
	Count int
}

// FinalValue is the value the host language's runtime would keep:
// the last assignment wins.
func (d DuplicateEntry) FinalValue() string {
	if len(d.Values) == 0 {
		return ""
	}
	return d.Values[len(d.Values)-1]
}

// Set is the multi-locale translation store. It owns one translation map per
// locale code, a second independent namespace per machine-translation bucket
// code, the duplicates found while loading, and the set of all keys ever seen
// across loaded locales.
//
// A Set is not safe for concurrent mutation; a concurrent caller must
// serialize writes to a given locale's map.
type Set struct {
	locales    map[string]map[string]string
	gt         map[string]map[string]string
	duplicates map[string][]DuplicateEntry
	allKeys    map[string]struct{}
}

func New() *Set {
	return &Set{
		locales:    make(map[string]map[string]string),
		gt:         make(map[string]map[string]string),
		duplicates: make(map[string][]DuplicateEntry),
		allKeys:    make(map[string]struct{}),
	}
}

// AddLocale loads one locale file's assignments. Re-assigned keys within the
// batch are recorded as duplicates and the last value wins, matching the
// runtime behavior of the scanned language.
func (s *Set) AddLocale(code string, entries []Assignment) {
	m, ok := s.locales[code]
	if !ok {
		m = make(map[string]string, len(entries))
		s.locales[code] = m
	}

	valuesByKey := make(map[string][]string)
	var order []string
	for _, e := range entries {
		if _, seen := valuesByKey[e.Key]; !seen {
			order = append(order, e.Key)
		}
		valuesByKey[e.Key] = append(valuesByKey[e.Key], e.Value)
		m[e.Key] = e.Value
		s.allKeys[e.Key] = struct{}{}
	}

	for _, key := range order {
		values := valuesByKey[key]
		if len(values) < 2 {
			continue
		}
		s.duplicates[code] = append(s.duplicates[code], DuplicateEntry{
			Key:    key,
			Values: values,
			Count:  len(values),
		})
	}
}

// AddGTLocale loads machine-assisted translations for a base-locale bucket.
// The GT namespace never merges into the primary locale maps; promotion is an
// explicit caller decision.
func (s *Set) AddGTLocale(gtCode string, entries []Assignment) {
	m, ok := s.gt[gtCode]
	if !ok {
		m = make(map[string]string, len(entries))
		s.gt[gtCode] = m
	}
	for _, e := range entries {
		m[e.Key] = e.Value
	}
}

// Translation returns the stored text for a key in a locale. A missing locale
// and a missing key both report false.
func (s *Set) Translation(key, code string) (string, bool) {
	v, ok := s.locales[code][key]
	return v, ok
}

// GTTranslation returns the machine-assisted text for a key in a bucket.
func (s *Set) GTTranslation(key, gtCode string) (string, bool) {
	v, ok := s.gt[gtCode][key]
	return v, ok
}

// SetTranslation stores a value for a key in a locale. An empty value marks
// the key for removal on the next save.
func (s *Set) SetTranslation(code, key, value string) {
	m, ok := s.locales[code]
	if !ok {
		m = make(map[string]string)
		s.locales[code] = m
	}
	m[key] = value
	s.allKeys[key] = struct{}{}
}

// SetGTTranslation stores a machine-assisted value for a key in a bucket.
func (s *Set) SetGTTranslation(gtCode, key, value string) {
	m, ok := s.gt[gtCode]
	if !ok {
		m = make(map[string]string)
		s.gt[gtCode] = m
	}
	m[key] = value
}

// Translations returns a copy of a locale's key→text map.
func (s *Set) Translations(code string) map[string]string {
	return copyMap(s.locales[code])
}

// GTTranslations returns a copy of a bucket's key→text map.
func (s *Set) GTTranslations(gtCode string) map[string]string {
	return copyMap(s.gt[gtCode])
}

// Locales returns the loaded locale codes, sorted.
func (s *Set) Locales() []string {
	return sortedMapKeys(s.locales)
}

// GTLocales returns the loaded machine-translation bucket codes, sorted.
func (s *Set) GTLocales() []string {
	return sortedMapKeys(s.gt)
}

// AllKeys returns every key ever seen across loaded locales, sorted
// case-insensitively.
func (s *Set) AllKeys() []string {
	out := make([]string, 0, len(s.allKeys))
	for k := range s.allKeys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Coverage returns the fraction of the all-keys set holding a non-empty
// translation for a locale, as a percentage. An empty key set is 0%.
func (s *Set) Coverage(code string) float64 {
	if len(s.allKeys) == 0 {
		return 0
	}
	m := s.locales[code]
	n := 0
	for k := range s.allKeys {
		if strings.TrimSpace(m[k]) != "" {
			n++
		}
	}
	return float64(n) / float64(len(s.allKeys)) * 100
}

// Duplicates returns the duplicate entries recorded while loading a locale.
func (s *Set) Duplicates(code string) []DuplicateEntry {
	out := make([]DuplicateEntry, len(s.duplicates[code]))
	copy(out, s.duplicates[code])
	return out
}

// OrphanedKeys returns keys stored for a locale that are absent from the
// valid-keys set supplied by the extraction phase, sorted. Matching is
// case-insensitive, like key identity during extraction. Detection never
// mutates the store.
func (s *Set) OrphanedKeys(code string, validKeys []string) []string {
	return orphansOf(s.locales[code], validKeys)
}

// RemoveOrphanedKeys deletes orphaned keys from a locale's stored map and
// returns the number removed. This is the only deletion the store performs,
// and only when explicitly requested.
func (s *Set) RemoveOrphanedKeys(code string, validKeys []string) int {
	return removeOrphans(s.locales[code], validKeys)
}

// GTOrphanedKeys is OrphanedKeys for the machine-translation namespace.
func (s *Set) GTOrphanedKeys(gtCode string, validKeys []string) []string {
	return orphansOf(s.gt[gtCode], validKeys)
}

// RemoveGTOrphanedKeys is RemoveOrphanedKeys for the machine-translation namespace.
func (s *Set) RemoveGTOrphanedKeys(gtCode string, validKeys []string) int {
	return removeOrphans(s.gt[gtCode], validKeys)
}

func orphansOf(m map[string]string, validKeys []string) []string {
	valid := loweredSet(validKeys)
	var out []string
	for k := range m {
		if _, ok := valid[strings.ToLower(k)]; !ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func removeOrphans(m map[string]string, validKeys []string) int {
	valid := loweredSet(validKeys)
	removed := 0
	for k := range m {
		if _, ok := valid[strings.ToLower(k)]; !ok {
			delete(m, k)
			removed++
		}
	}
	return removed
}

func loweredSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	return set
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedMapKeys(m map[string]map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Edit is one pending change to a locale's translation.
type Edit struct {
	Locale string
	Key    string
	Value  string
}

// ApplyEdits returns a new Set with the edits applied, leaving the receiver
// untouched. Callers that need change tracking diff the two sets.
func ApplyEdits(s *Set, edits []Edit) *Set {
	out := New()
	for code, m := range s.locales {
		out.locales[code] = copyMap(m)
	}
	for code, m := range s.gt {
		out.gt[code] = copyMap(m)
	}
	for code, d := range s.duplicates {
		out.duplicates[code] = append([]DuplicateEntry(nil), d...)
	}
	for k := range s.allKeys {
		out.allKeys[k] = struct{}{}
	}
	for _, e := range edits {
		out.SetTranslation(e.Locale, e.Key, e.Value)
	}
	return out
}
