package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtect_NoSpecifiers(t *testing.T) {
	text := "Ready to fight"
	protected, mappings := Protect(text)
	assert.Equal(t, text, protected)
	assert.Nil(t, mappings)
}

func TestProtect_SequentialSpecifiers(t *testing.T) {
	protected, mappings := Protect("Cast %s on %d targets")
	assert.Equal(t, "Cast {{var_1}} on {{var_2}} targets", protected)
	require.Len(t, mappings, 2)
	assert.Equal(t, "%s", mappings[0].Original)
	assert.Equal(t, "%d", mappings[1].Original)
	assert.Equal(t, 1, mappings[0].Index)
	assert.Equal(t, 2, mappings[1].Index)
}

func TestProtect_PositionalAndWidth(t *testing.T) {
	protected, mappings := Protect("%1$s hit %2$s for %.1f")
	assert.Equal(t, "{{var_1}} hit {{var_2}} for {{var_3}}", protected)
	require.Len(t, mappings, 3)
	assert.Equal(t, "%1$s", mappings[0].Original)
	assert.Equal(t, "%2$s", mappings[1].Original)
	assert.Equal(t, "%.1f", mappings[2].Original)
}

func TestRestore_RoundTrip(t *testing.T) {
	original := "Gained %d%% haste from %s"
	protected, mappings := Protect(original)
	assert.NotContains(t, protected, "%d")
	assert.Equal(t, original, Restore(protected, mappings))
}

func TestRestore_TranslatedTextAroundPlaceholders(t *testing.T) {
	_, mappings := Protect("Deal %d damage")
	// Simulate the provider rewriting the words but keeping placeholders.
	translated := "Verursache {{var_1}} Schaden"
	assert.Equal(t, "Verursache %d Schaden", Restore(translated, mappings))
}

func TestRestore_MissingPlaceholderLeftAlone(t *testing.T) {
	_, mappings := Protect("%s and %s")
	// Provider dropped the second placeholder entirely.
	assert.Equal(t, "%s only", Restore("{{var_1}} only", mappings))
}
