package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSquare(t *testing.T) {
	c, err := ParseSquare("e4")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Row())
	assert.Equal(t, 4, c.Col())
	assert.Equal(t, 28, c.Index())
	assert.Equal(t, "e4", c.String())

	a1 := MustSquare("a1")
	assert.Equal(t, 0, a1.Index())
	h8 := MustSquare("h8")
	assert.Equal(t, 63, h8.Index())
}

func TestParseSquareRejects(t *testing.T) {
	for _, s := range []string{"", "e", "e44", "i1", "a9", "a0", "E4"} {
		_, err := ParseSquare(s)
		assert.ErrorIs(t, err, ErrOutOfBounds, s)
	}
}

func TestNewCoordinateBounds(t *testing.T) {
	tests := []struct {
		row, col int
		ok       bool
	}{
		{0, 0, true},
		{7, 7, true},
		{8, 0, false},
		{0, 8, false},
		{-1, 3, false},
		{3, -1, false},
	}
	for _, tt := range tests {
		_, err := NewCoordinate(tt.row, tt.col)
		if tt.ok {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrOutOfBounds)
		}
	}
}

func TestCoordinateJSON(t *testing.T) {
	type wrapper struct {
		Sq Coordinate `json:"sq"`
	}
	raw, err := json.Marshal(wrapper{Sq: MustSquare("g1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sq":"g1"}`, string(raw))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"sq":"c6"}`), &w))
	assert.Equal(t, MustSquare("c6"), w.Sq)

	assert.Error(t, json.Unmarshal([]byte(`{"sq":"z9"}`), &w))
}
