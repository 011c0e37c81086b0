package xword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"", Blank},
		{" ", Blank},
		{"#", Blocked},
		{".", Blocked},
		{"A", A},
		{"z", Z},
		{"é", E},
		{"Ç", C},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}

	for _, in := range []string{"5", "AB", "?", "œ"} {
		_, err := ParseValue(in)
		assert.ErrorIs(t, err, ErrInvalidValue, "input %q", in)
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "█", Blocked.String())
	assert.Equal(t, " ", Blank.String())
	assert.Equal(t, "Q", Q.String())
	assert.Equal(t, "HE LO", ValuesString([]Value{H, E, Blank, L, O}))
	assert.True(t, Blocked.IsBlocked())
	assert.False(t, Blank.IsLetter())
}

func TestFold(t *testing.T) {
	assert.Equal(t, "ETE", Fold("été"))
	assert.Equal(t, "NOEL", Fold("Noël"))
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{
		"horizontal": Horizontal,
		"Across":     Horizontal,
		"v":          Vertical,
		"down":       Vertical,
	} {
		got, err := ParseOrientation(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
	_, err := ParseOrientation("diagonal")
	assert.Error(t, err)
}
