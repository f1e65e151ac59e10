package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_DisplayOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 12)
	assert.Equal(t, "enUS", all[0].Code)
	assert.Equal(t, "zhTW", all[len(all)-1].Code)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].SortOrder, all[i].SortOrder)
	}
}

func TestByCode(t *testing.T) {
	l, ok := ByCode("ptBR")
	require.True(t, ok)
	assert.Equal(t, "Portuguese (Brazil)", l.Name)
	assert.Equal(t, "pt", l.Base)

	_, ok = ByCode("enGB")
	assert.False(t, ok)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("koKR"))
	assert.False(t, IsSupported("koKr"))
	assert.False(t, IsSupported(""))
}

func TestGTCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"deDE", "de"},
		{"esES", "es"},
		{"esMX", "es"},
		{"ptBR", "pt"},
		{"ptPT", "pt"},
		// Simplified and traditional script cannot share one bucket.
		{"zhCN", "zhCN"},
		{"zhTW", "zhTW"},
	}
	for _, tt := range tests {
		got, ok := GTCode(tt.code)
		require.True(t, ok, tt.code)
		assert.Equal(t, tt.want, got, tt.code)
	}

	_, ok := GTCode("xxXX")
	assert.False(t, ok)
}

func TestGTCodes_Distinct(t *testing.T) {
	codes := GTCodes()
	assert.Equal(t, []string{"en", "de", "es", "fr", "it", "ko", "pt", "ru", "zhCN", "zhTW"}, codes)
}

func TestVariantsOf(t *testing.T) {
	assert.Equal(t, []string{"ptBR", "ptPT"}, VariantsOf("pt"))
	assert.Equal(t, []string{"esES", "esMX"}, VariantsOf("es"))
	assert.Equal(t, []string{"zhCN"}, VariantsOf("zhCN"))
	assert.Nil(t, VariantsOf("xx"))
}

func TestProviderCode(t *testing.T) {
	p, ok := ProviderCode("pt")
	require.True(t, ok)
	assert.Equal(t, "pt", p)

	p, ok = ProviderCode("zhCN")
	require.True(t, ok)
	assert.Equal(t, "zh-CN", p)

	p, ok = ProviderCode("zhTW")
	require.True(t, ok)
	assert.Equal(t, "zh-TW", p)

	_, ok = ProviderCode("xx")
	assert.False(t, ok)
}
