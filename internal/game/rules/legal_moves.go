package rules

import "github.com/mitchelldurbincs/genghis/internal/game/core"

// LegalMoveCalculator computes legal moves for players
type LegalMoveCalculator struct {
	adj *core.AdjacencyTable
}

// NewLegalMoveCalculator creates a new legal move calculator. adj may be nil,
// in which case neighbors are derived from coordinates.
func NewLegalMoveCalculator(adj *core.AdjacencyTable) *LegalMoveCalculator {
	return &LegalMoveCalculator{adj: adj}
}

// LegalMoves lists every full-army move player can currently make, in
// tile-index order and N, E, S, W order within a tile. A split move is legal
// for exactly the same source/destination pairs.
func (lmc *LegalMoveCalculator) LegalMoves(board *core.Board, player int) []core.Move {
	var moves []core.Move
	lmc.forEachLegal(board, player, func(from core.Coordinate, _ core.Direction, to core.Coordinate) {
		moves = append(moves, core.Move{PlayerID: player, From: from, To: to})
	})
	return moves
}

// GetLegalActionMask returns a flattened boolean mask indicating which actions are legal for the given player.
// For a board of width W and height H:
// - Total actions = W * H * 4 (4 directions per tile)
// - Index = (y * W + x) * 4 + direction
// - Directions: 0=north, 1=east, 2=south, 3=west
func (lmc *LegalMoveCalculator) GetLegalActionMask(board *core.Board, player Player) []bool {
	mask := make([]bool, board.W*board.H*core.NumDirections)
	if !player.IsAlive() {
		return mask
	}
	lmc.forEachLegal(board, player.GetID(), func(from core.Coordinate, d core.Direction, _ core.Coordinate) {
		mask[ActionIndex(board.W, from, d)] = true
	})
	return mask
}

// ActionIndex maps a source tile and direction to its action mask slot.
func ActionIndex(width int, from core.Coordinate, d core.Direction) int {
	return from.ToIndex(width)*core.NumDirections + int(d)
}

// DecodeAction is the inverse of ActionIndex.
func DecodeAction(width, action int) (core.Coordinate, core.Direction) {
	return core.FromIndex(action/core.NumDirections, width), core.Direction(action % core.NumDirections)
}

func (lmc *LegalMoveCalculator) forEachLegal(board *core.Board, player int, fn func(core.Coordinate, core.Direction, core.Coordinate)) {
	for idx := range board.T {
		tile := &board.T[idx]
		// Can only move if we own the tile and have more than 1 army
		if tile.Owner != player || tile.Army <= 1 {
			continue
		}
		from := board.Coord(idx)
		for _, to := range lmc.neighbors(board, idx) {
			if board.T[to].IsMountain() {
				continue
			}
			dest := board.Coord(to)
			fn(from, from.DirectionTo(dest), dest)
		}
	}
}

func (lmc *LegalMoveCalculator) neighbors(board *core.Board, idx int) []int {
	if lmc.adj != nil {
		return lmc.adj.Neighbors(idx)
	}
	var out []int
	for _, c := range board.Coord(idx).Neighbors() {
		if c.IsValid(board.W, board.H) {
			out = append(out, c.ToIndex(board.W))
		}
	}
	return out
}
