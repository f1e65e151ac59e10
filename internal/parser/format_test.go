package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatParameters_Sequential(t *testing.T) {
	params := ParseFormatParameters("Player %s has %d items (%.1f%% full)")
	require.Len(t, params, 4)

	assert.Equal(t, KindString, params[0].Kind)
	assert.Equal(t, 1, params[0].Position)

	assert.Equal(t, KindInteger, params[1].Kind)
	assert.Equal(t, 2, params[1].Position)

	assert.Equal(t, KindFloat, params[2].Kind)
	assert.Equal(t, 3, params[2].Position)
	assert.Equal(t, 1, params[2].Precision)

	assert.Equal(t, KindPercent, params[3].Kind)
	assert.Equal(t, 0, params[3].Position)

	info := &GlueInfo{Parameters: params}
	assert.Equal(t, 3, info.ParameterCount(), "literal percent must not count")
}

func TestParseFormatParameters_PositionalDoesNotAdvanceCounter(t *testing.T) {
	params := ParseFormatParameters("%2$s says %s to %1$s and %d")
	require.Len(t, params, 4)

	assert.Equal(t, 2, params[0].Position)
	assert.True(t, params[0].Positional)

	// Sequential numbering runs independently of positional indices.
	assert.Equal(t, 1, params[1].Position)
	assert.False(t, params[1].Positional)

	assert.Equal(t, 1, params[2].Position)
	assert.True(t, params[2].Positional)

	assert.Equal(t, 2, params[3].Position)
	assert.False(t, params[3].Positional)
}

func TestParseFormatParameters_SpaceIsNotAFlag(t *testing.T) {
	assert.Nil(t, ParseFormatParameters("Haste% in Voidform"))
	assert.Nil(t, ParseFormatParameters("100% sure"))
	assert.Nil(t, ParseFormatParameters("% d"))
}

func TestParseFormatParameters_WidthAndFlags(t *testing.T) {
	params := ParseFormatParameters("%-5d %05.2f %#x %+i %u %o %e %G %c")
	require.Len(t, params, 9)

	assert.Equal(t, "%-5d", params[0].Raw)
	assert.Equal(t, 5, params[0].Width)
	assert.Equal(t, KindInteger, params[0].Kind)

	assert.Equal(t, 5, params[1].Width)
	assert.Equal(t, 2, params[1].Precision)
	assert.Equal(t, KindFloat, params[1].Kind)

	assert.Equal(t, KindHex, params[2].Kind)
	assert.Equal(t, KindInteger, params[3].Kind)
	assert.Equal(t, KindUnsigned, params[4].Kind)
	assert.Equal(t, KindOctal, params[5].Kind)
	assert.Equal(t, KindExponential, params[6].Kind)
	assert.Equal(t, KindGeneral, params[7].Kind)
	assert.Equal(t, KindCharacter, params[8].Kind)

	for i, p := range params {
		assert.Equal(t, i+1, p.Position, "specifier %d", i)
	}
}

func TestParseFormatParameters_DoublePercentOnly(t *testing.T) {
	params := ParseFormatParameters("fully %% escaped %%")
	require.Len(t, params, 2)
	for _, p := range params {
		assert.Equal(t, KindPercent, p.Kind)
		assert.Equal(t, 0, p.Position)
	}
	info := &GlueInfo{Parameters: params}
	assert.Equal(t, 0, info.ParameterCount())
}

func TestParseFormatParameters_NoSpecifiers(t *testing.T) {
	assert.Nil(t, ParseFormatParameters("plain text"))
	assert.Nil(t, ParseFormatParameters(""))
}
