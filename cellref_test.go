package gridcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColToName(t *testing.T) {
	tests := []struct {
		col  int
		name string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, ColToName(tt.col), "col %d", tt.col)
		got, err := NameToCol(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.col, got, "name %s", tt.name)
	}
}

func TestColToName_Negative(t *testing.T) {
	assert.Equal(t, "", ColToName(-1))
}

func TestNameToCol_Bijection(t *testing.T) {
	for col := 0; col <= 2000; col++ {
		got, err := NameToCol(ColToName(col))
		require.NoError(t, err)
		require.Equal(t, col, got)
	}
}

func TestNameToCol_Lowercase(t *testing.T) {
	got, err := NameToCol("ab")
	require.NoError(t, err)
	assert.Equal(t, 27, got)
}

func TestNameToCol_Invalid(t *testing.T) {
	for _, name := range []string{"", "A1", "Ä", "A-B"} {
		_, err := NameToCol(name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input string
		want  Address
	}{
		{"A1", Address{Row: 0, Col: 0}},
		{"B3", Address{Row: 2, Col: 1}},
		{"b12", Address{Row: 11, Col: 1}},
		{"AA3", Address{Row: 2, Col: 26}},
		{" C4 ", Address{Row: 3, Col: 2}},
	}
	for _, tt := range tests {
		got, err := ParseAddress(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	for _, input := range []string{"", "1A", "A", "A0", "A-1", "A1B", "$A$1", "A1:B2", "SUM"} {
		_, err := ParseAddress(input)
		assert.ErrorIs(t, err, ErrNotAddress, "input %q", input)
	}
}

func TestAddress_String(t *testing.T) {
	assert.Equal(t, "A1", NewAddress(0, 0).String())
	assert.Equal(t, "AB10", NewAddress(9, 27).String())
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("A1:C5")
	require.NoError(t, err)
	assert.Equal(t, NewRange(NewAddress(0, 0), NewAddress(4, 2)), r)
	assert.Equal(t, "A1:C5", r.String())
	assert.False(t, r.IsSingle())

	single, err := ParseRange("B2")
	require.NoError(t, err)
	assert.True(t, single.IsSingle())
	assert.Equal(t, "B2", single.String())
}

func TestParseRange_Invalid(t *testing.T) {
	for _, input := range []string{"", "A1:", ":B2", "A1:B2:C3", "A1:foo"} {
		_, err := ParseRange(input)
		assert.ErrorIs(t, err, ErrInvalidRange, "input %q", input)
	}
}

func TestRange_Normalize(t *testing.T) {
	r, err := ParseRange("C5:A1")
	require.NoError(t, err)
	n := r.Normalize()
	assert.Equal(t, NewAddress(0, 0), n.Start)
	assert.Equal(t, NewAddress(4, 2), n.End)
	assert.Equal(t, Size{Width: 3, Height: 5}, r.Size())
	assert.Equal(t, "(3x5)", r.Size().String())
}

func TestRange_Cells(t *testing.T) {
	r, err := ParseRange("B2:A1")
	require.NoError(t, err)
	assert.Equal(t, []Address{
		NewAddress(0, 0), NewAddress(0, 1),
		NewAddress(1, 0), NewAddress(1, 1),
	}, r.Cells())
}

func TestRange_Contains(t *testing.T) {
	r, err := ParseRange("B2:D4")
	require.NoError(t, err)
	assert.True(t, r.Contains(NewAddress(1, 1)))
	assert.True(t, r.Contains(NewAddress(3, 3)))
	assert.False(t, r.Contains(NewAddress(0, 1)))
	assert.False(t, r.Contains(NewAddress(2, 4)))
}
