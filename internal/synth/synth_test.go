package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guardedFile = []string{
	`-- German localization`,
	`local _, L = ...`,
	`local locale = GetLocale()`,
	`if locale == "deDE" then`,
	`    L["Apple"] = "Apfel"`,
	``,
	`    -- fruit section`,
	`    L["Banana"] = "Banane"`,
	`end`,
	``,
	`print("trailing code stays")`,
}

func TestSynthesize_NoOpKeepsBytes(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"deDE"},
		append([]string(nil), guardedFile...),
		map[string]string{"Apple": "Apfel", "Banana": "Banane"})

	assert.Equal(t, guardedFile, out, "unchanged values reproduce the file byte-for-byte")
}

func TestSynthesize_ReplacesChangedValueKeepingIndent(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"deDE"},
		append([]string(nil), guardedFile...),
		map[string]string{"Apple": "Apfelkuchen", "Banana": "Banane"})

	assert.Contains(t, out, `    L["Apple"] = "Apfelkuchen"`)
	assert.Contains(t, out, `    L["Banana"] = "Banane"`)
	assert.Contains(t, out, `    -- fruit section`, "non-assignment lines survive")
	assert.Contains(t, out, `print("trailing code stays")`)
}

func TestSynthesize_EmptyValueDeletesLine(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"deDE"},
		append([]string(nil), guardedFile...),
		map[string]string{"Apple": "", "Banana": "Banane"})

	joined := strings.Join(out, "\n")
	assert.NotContains(t, joined, "Apfel")
	assert.Contains(t, joined, "Banane")
}

func TestSynthesize_GuardedKeepsUnknownKeys(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"deDE"},
		append([]string(nil), guardedFile...),
		map[string]string{"Banana": "Banane"})

	// Apple is absent from the map: preserved verbatim inside a guarded block.
	assert.Contains(t, out, `    L["Apple"] = "Apfel"`)
}

func TestSynthesize_UnguardedDropsUnknownKeys(t *testing.T) {
	base := []string{
		`-- base strings`,
		`L["Keep"] = "Keep"`,
		`L["Orphan"] = "Gone"`,
		`-- trailing comment`,
	}
	s := New()
	out := s.Synthesize([]string{"enUS"}, base, map[string]string{"Keep": "Keep"})

	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, `L["Keep"] = "Keep"`)
	assert.NotContains(t, joined, "Orphan")
	assert.Contains(t, joined, "-- base strings")
	assert.Contains(t, joined, "-- trailing comment")
}

func TestSynthesize_DuplicatesCollapseToFirstLineLastValue(t *testing.T) {
	file := []string{
		`if locale == "deDE" then`,
		`    L["Dup"] = "one"`,
		`    L["Dup"] = "two"`,
		`    L["Dup"] = "three"`,
		`end`,
	}
	s := New()
	// Dataset loading kept the last value; save collapses to one line.
	out := s.Synthesize([]string{"deDE"}, file, map[string]string{"Dup": "three"})

	count := 0
	for _, line := range out {
		if strings.Contains(line, `L["Dup"]`) {
			count++
			assert.Equal(t, `    L["Dup"] = "three"`, line)
		}
	}
	assert.Equal(t, 1, count)
}

func TestSynthesize_NewKeysAppendedSorted(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"deDE"},
		append([]string(nil), guardedFile...),
		map[string]string{
			"Apple":  "Apfel",
			"Banana": "Banane",
			"cherry": "Kirsche",
			"Almond": "Mandel",
		})

	var added []string
	for _, line := range out {
		if strings.Contains(line, "Mandel") || strings.Contains(line, "Kirsche") {
			added = append(added, line)
		}
	}
	require.Equal(t, []string{
		`    L["Almond"] = "Mandel"`,
		`    L["cherry"] = "Kirsche"`,
	}, added, "case-insensitive key order, guard indentation")

	// Appended inside the guarded block, before its end line.
	endIdx := -1
	addIdx := -1
	for i, line := range out {
		if strings.TrimSpace(line) == "end" {
			endIdx = i
		}
		if strings.Contains(line, "Kirsche") {
			addIdx = i
		}
	}
	assert.Less(t, addIdx, endIdx)
}

func TestSynthesize_NoAssignmentsWarnsAndPreserves(t *testing.T) {
	file := []string{
		`-- just a comment`,
		`print("no assignments here")`,
	}
	s := New()
	out := s.Synthesize([]string{"deDE"}, file, map[string]string{"A": "a"})

	require.Len(t, out, 3)
	assert.Equal(t, WarningMarker, out[0])
	assert.Equal(t, file[0], out[1])
	assert.Equal(t, file[1], out[2])
}

func TestSynthesize_NewFileTemplate(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"deDE"}, nil, map[string]string{"A": "eins", "B": ""})

	require.Equal(t, []string{
		`local _, L = ...`,
		`local locale = GetLocale()`,
		`if locale == "deDE" then`,
		`    L["A"] = "eins"`,
		`end`,
	}, out, "empty values are omitted from new files")
}

func TestSynthesize_NewGTFileCoversVariants(t *testing.T) {
	s := New()
	out := s.Synthesize([]string{"esES", "esMX"}, nil, map[string]string{"A": "uno"})

	assert.Equal(t, `if locale == "esES" or locale == "esMX" then`, out[2])
}

func TestSynthesize_UnchangedEscapedValueNotRewritten(t *testing.T) {
	file := []string{
		`if locale == "deDE" then`,
		`    L["Multi"] = "Zeile1\nZeile2"`,
		`end`,
	}
	s := New()
	// The dataset holds the unescaped value; saving it back must keep the
	// original line untouched.
	out := s.Synthesize([]string{"deDE"}, file, map[string]string{"Multi": "Zeile1\nZeile2"})
	assert.Equal(t, file, out)
}

func TestSynthesize_GuardOnGetLocaleCall(t *testing.T) {
	file := []string{
		`if GetLocale() == "frFR" then`,
		`    L["A"] = "un"`,
		`end`,
	}
	s := New()
	out := s.Synthesize([]string{"frFR"}, file, map[string]string{"A": "deux"})
	assert.Equal(t, `    L["A"] = "deux"`, out[1])
}
