package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small board", 5, 5},
		{"rectangular board", 10, 20},
		{"minimum board", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard(tt.width, tt.height)

			assert.Equal(t, tt.width, board.W)
			assert.Equal(t, tt.height, board.H)
			assert.Len(t, board.T, tt.width*tt.height)

			for i, tile := range board.T {
				assert.Equal(t, NeutralID, tile.Owner, "tile %d should be neutral", i)
				assert.Equal(t, Plain, tile.Type, "tile %d should be plain", i)
				assert.Equal(t, 0, tile.Army, "tile %d should have 0 army", i)
				assert.False(t, tile.Lit, "tile %d should not be lit", i)
			}
		})
	}
}

func TestBoard_IdxAndXY(t *testing.T) {
	board := NewBoard(5, 3)

	tests := []struct {
		x, y     int
		expected int
	}{
		{0, 0, 0},
		{4, 0, 4},
		{0, 1, 5},
		{2, 2, 12},
		{4, 2, 14},
	}

	for _, tt := range tests {
		idx := board.Idx(tt.x, tt.y)
		assert.Equal(t, tt.expected, idx, "Idx(%d,%d)", tt.x, tt.y)
		x, y := board.XY(idx)
		assert.Equal(t, tt.x, x)
		assert.Equal(t, tt.y, y)
		assert.Equal(t, Coordinate{tt.x, tt.y}, board.Coord(idx))
	}
}

func TestBoard_GetTile(t *testing.T) {
	board := NewBoard(3, 3)
	board.T[board.Idx(1, 2)].Army = 7

	require.NotNil(t, board.GetTile(1, 2))
	assert.Equal(t, 7, board.GetTile(1, 2).Army)
	assert.Nil(t, board.GetTile(-1, 0))
	assert.Nil(t, board.GetTile(3, 0))
	assert.Nil(t, board.GetTile(0, 3))
}

func TestBoard_CloneIsDeep(t *testing.T) {
	board := NewBoard(2, 2)
	board.T[0] = Tile{Owner: 0, Army: 5, Type: General}

	clone := board.Clone()
	require.True(t, board.Equal(clone))

	clone.T[0].Army = 99
	assert.Equal(t, 5, board.T[0].Army, "mutating the clone must not touch the original")
	assert.False(t, board.Equal(clone))
}

func TestBoard_Equal(t *testing.T) {
	a := NewBoard(2, 3)
	b := NewBoard(3, 2)
	assert.False(t, a.Equal(b), "dimensions differ")
	assert.True(t, a.Equal(NewBoard(2, 3)))

	var nilBoard *Board
	assert.True(t, nilBoard.Equal(nil))
	assert.False(t, nilBoard.Equal(a))
}

func TestBoard_GeneralOfAndTotals(t *testing.T) {
	board := NewBoard(3, 1)
	board.T[0] = Tile{Owner: 1, Army: 4, Type: Plain}
	board.T[2] = Tile{Owner: 1, Army: 3, Type: General}

	assert.Equal(t, 2, board.GeneralOf(1))
	assert.Equal(t, -1, board.GeneralOf(0))

	army, land := board.PlayerTotals(1)
	assert.Equal(t, 7, army)
	assert.Equal(t, 2, land)
	assert.Equal(t, 1, board.CountType(General))
	assert.Equal(t, 2, board.CountType(Plain))
}

func TestBoard_Fingerprint(t *testing.T) {
	a := NewBoard(4, 4)
	b := a.Clone()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.FingerprintHex(), 64)

	b.T[5].Lit = true
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint(), "lit flag is part of the fingerprint")

	// Same tiles, transposed dimensions.
	c := NewBoard(2, 8)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestTerrain_String(t *testing.T) {
	assert.Equal(t, "observatory", Observatory.String())
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "unknown", Terrain(42).String())
	assert.False(t, Terrain(-1).Valid())
}
