package testutil

import (
	"math/rand"

	"github.com/mitchelldurbincs/genghis/internal/game/core"
)

// NewTestRNG returns a seeded source so generated maps and random moves
// repeat between runs.
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// CreateTestBoard creates a neutral, all-plain test board with the given dimensions
func CreateTestBoard(width, height int) *core.Board {
	return core.NewBoard(width, height)
}

// CreateTestBoardWithTiles creates a test board and sets up specific tiles
func CreateTestBoardWithTiles(width, height int, tiles map[core.Coordinate]core.Tile) *core.Board {
	board := core.NewBoard(width, height)
	for coord, tile := range tiles {
		board.T[coord.ToIndex(width)] = tile
	}
	return board
}

// CreateSimpleTestSetup creates a simple 5x5 board with 2 players.
// Player 0 general at (1,1), Player 1 general at (3,3), a neutral city at
// (2,2) holding 40 armies and a mountain at (2,1).
func CreateSimpleTestSetup() *core.Board {
	return CreateTestBoardWithTiles(5, 5, map[core.Coordinate]core.Tile{
		{X: 1, Y: 1}: {Type: core.General, Owner: 0, Army: 1},
		{X: 3, Y: 3}: {Type: core.General, Owner: 1, Army: 1},
		{X: 2, Y: 2}: {Type: core.City, Owner: core.NeutralID, Army: 40},
		{X: 2, Y: 1}: {Type: core.Mountain, Owner: core.NeutralID},
	})
}

// CreateDuelBoard creates a 2x1 board holding player 0's General at (0,0)
// and player 1's General at (1,0), both with one army.
func CreateDuelBoard() *core.Board {
	return CreateTestBoardWithTiles(2, 1, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 1},
		{X: 1, Y: 0}: {Type: core.General, Owner: 1, Army: 1},
	})
}
