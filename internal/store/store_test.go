package store

import (
	"context"
	"sort"
	"sync"
	"testing"

	"glue-localizer/internal/dataset"
	"glue-localizer/internal/fsys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localeDir = "/addon/Locales"

func newTestStore(t *testing.T) (*Store, *fsys.Mem) {
	t.Helper()
	mem := fsys.NewMem()
	return New(mem, localeDir, "L"), mem
}

func writeFile(t *testing.T, mem *fsys.Mem, path string, lines ...string) {
	t.Helper()
	require.NoError(t, mem.WriteLines(path, lines))
}

func TestLoadDataSet_MissingDirectory(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.LoadDataSet()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDataSet_LocalesAndGTBuckets(t *testing.T) {
	st, mem := newTestStore(t)

	writeFile(t, mem, localeDir+"/enUS.lua",
		`L["A"] = "one"`,
		`L["B"] = "two"`,
	)
	writeFile(t, mem, localeDir+"/deDE.lua",
		`if locale == "deDE" then`,
		`    L["A"] = "eins"`,
		`end`,
	)
	writeFile(t, mem, localeDir+"/pt-GT.lua",
		`if locale == "ptBR" or locale == "ptPT" then`,
		`    L["A"] = "um"`,
		`end`,
	)

	ds, err := st.LoadDataSet()
	require.NoError(t, err)

	assert.Equal(t, []string{"deDE", "enUS"}, ds.Locales())
	assert.Equal(t, []string{"pt"}, ds.GTLocales())

	v, ok := ds.Translation("A", "deDE")
	require.True(t, ok)
	assert.Equal(t, "eins", v)

	gv, ok := ds.GTTranslation("A", "pt")
	require.True(t, ok)
	assert.Equal(t, "um", gv)
}

func TestSaveLocale_InvalidLocale(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, localeDir+"/enUS.lua", `L["A"] = "one"`)

	ds, err := st.LoadDataSet()
	require.NoError(t, err)

	err = st.SaveLocale(ds, "xxXX", SaveOptions{})
	assert.ErrorIs(t, err, ErrInvalidLocale)
}

func TestSaveLocale_CreatesNewGuardedFile(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, localeDir+"/enUS.lua", `L["A"] = "one"`)

	ds, err := st.LoadDataSet()
	require.NoError(t, err)
	ds.SetTranslation("deDE", "A", "eins")

	require.NoError(t, st.SaveLocale(ds, "deDE", SaveOptions{}))

	lines, err := mem.ReadLines(localeDir + "/deDE.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`local _, L = ...`,
		`local locale = GetLocale()`,
		`if locale == "deDE" then`,
		`    L["A"] = "eins"`,
		`end`,
	}, lines)
}

func TestRoundTrip_SynthesizedFileLoadsBack(t *testing.T) {
	st, _ := newTestStore(t)

	ds := dataset.New()
	ds.SetTranslation("deDE", "A", "eins")
	require.NoError(t, st.SaveLocale(ds, "deDE", SaveOptions{}))

	reloaded, err := st.LoadDataSet()
	require.NoError(t, err)
	v, ok := reloaded.Translation("A", "deDE")
	require.True(t, ok)
	assert.Equal(t, "eins", v)
}

func TestSaveCycle_CollapsesDuplicates(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, localeDir+"/deDE.lua",
		`if locale == "deDE" then`,
		`    L["Dup"] = "one"`,
		`    L["Dup"] = "two"`,
		`    L["Dup"] = "three"`,
		`end`,
	)

	ds, err := st.LoadDataSet()
	require.NoError(t, err)

	dups := ds.Duplicates("deDE")
	require.Len(t, dups, 1)
	assert.Equal(t, "three", dups[0].FinalValue())

	require.NoError(t, st.SaveLocale(ds, "deDE", SaveOptions{}))

	lines, err := mem.ReadLines(localeDir + "/deDE.lua")
	require.NoError(t, err)
	count := 0
	for _, line := range lines {
		if line == `    L["Dup"] = "three"` {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, lines, 3)
}

func TestSave_BackupAndRestore(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, localeDir+"/deDE.lua",
		`if locale == "deDE" then`,
		`    L["A"] = "alt"`,
		`end`,
	)

	ds, err := st.LoadDataSet()
	require.NoError(t, err)
	ds.SetTranslation("deDE", "A", "neu")

	require.NoError(t, st.SaveLocale(ds, "deDE", SaveOptions{Backup: true}))

	backups, err := st.Backups(st.LocaleFile("deDE"))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	lines, err := mem.ReadLines(localeDir + "/deDE.lua")
	require.NoError(t, err)
	assert.Contains(t, lines, `    L["A"] = "neu"`)

	used, err := st.RestoreBackup(st.LocaleFile("deDE"))
	require.NoError(t, err)
	assert.Equal(t, backups[0], used)

	lines, err = mem.ReadLines(localeDir + "/deDE.lua")
	require.NoError(t, err)
	assert.Contains(t, lines, `    L["A"] = "alt"`)
}

func TestRestoreBackup_NoneAvailable(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, localeDir+"/deDE.lua", `L["A"] = "x"`)

	_, err := st.RestoreBackup(st.LocaleFile("deDE"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBackups(t *testing.T) {
	st, mem := newTestStore(t)
	require.NoError(t, mem.WriteText(localeDir+"/deDE.lua.20240101_000000.backup", "old"))
	require.NoError(t, mem.WriteText(localeDir+"/frFR.lua.20240101_000000.backup", "old"))
	writeFile(t, mem, localeDir+"/deDE.lua", `L["A"] = "x"`)

	removed, err := st.DeleteBackups()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, mem.FileExists(localeDir+"/deDE.lua"))
}

func TestSaveAll_ProgressAndPartialFailure(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, localeDir+"/enUS.lua", `L["A"] = "one"`)
	writeFile(t, mem, localeDir+"/deDE.lua",
		`if locale == "deDE" then`,
		`    L["A"] = "eins"`,
		`end`,
	)

	ds, err := st.LoadDataSet()
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []Progress
	err = st.SaveAll(context.Background(), ds, 4, SaveOptions{}, func(p Progress) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	var locales []string
	for _, p := range seen {
		assert.NoError(t, p.Err)
		assert.Equal(t, 2, p.Total)
		locales = append(locales, p.Locale)
	}
	sort.Strings(locales)
	assert.Equal(t, []string{"deDE", "enUS"}, locales)

	// Counters are monotonic even under concurrency.
	sort.Slice(seen, func(i, j int) bool { return seen[i].Processed < seen[j].Processed })
	assert.Equal(t, 1, seen[0].Processed)
	assert.Equal(t, 2, seen[1].Processed)
}

func TestScanSource(t *testing.T) {
	st, mem := newTestStore(t)
	writeFile(t, mem, "/addon/core.lua",
		`local f = CreateFrame("Frame")`,
		`f:SetText(L["Title"])`,
		`local s = L["Dynamic" .. id]`,
	)
	writeFile(t, mem, "/addon/util.lua",
		`print(string.format(L["Count"], n))`,
		`print(L["Title"])`,
	)
	// Locale files are skipped so they cannot feed the valid-keys set.
	writeFile(t, mem, "/addon/Locales/deDE.lua", `L["Stale"] = "alt"`)

	result, err := st.ScanSource(context.Background(), "/addon", 2)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Len())

	title, ok := result.Get("Title")
	require.True(t, ok)
	assert.Equal(t, 2, title.Occurrences)

	_, ok = result.Get("Stale")
	assert.False(t, ok)

	dyn, ok := result.Get("Dynamic")
	require.True(t, ok)
	assert.True(t, dyn.HasConcatenation)

	count, ok := result.Get("Count")
	require.True(t, ok)
	assert.True(t, count.UsedInTemplateCall)
}

func TestScanSource_MissingRoot(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.ScanSource(context.Background(), "/nowhere", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
