package game

import "github.com/mitchelldurbincs/genghis/internal/game/core"

// Player holds per-player stats, refreshed after every turn
type Player struct {
	ID         int
	Alive      bool
	ArmyCount  int   // cached every turn
	Land       int   // number of owned tiles
	GeneralIdx int   // -1 if eliminated
	OwnedTiles []int // tile indices, ascending
}

func (p Player) GetID() int    { return p.ID }
func (p Player) IsAlive() bool { return p.Alive }
// Score returns the player's total army and land
func (p Player) Score() (army, land int) {
	return p.ArmyCount, p.Land
}

// GameState is the mutable state owned by an Engine
type GameState struct {
	Turn     int
	Priority int // player whose moves resolve first next turn
	Board    *core.Board
	Players  []Player

	// ChangedTiles collects tiles touched since the start of the current turn
	ChangedTiles map[int]struct{}
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Turn:         gs.Turn,
		Priority:     gs.Priority,
		Board:        gs.Board.Clone(),
		Players:      make([]Player, len(gs.Players)),
		ChangedTiles: make(map[int]struct{}, len(gs.ChangedTiles)),
	}
	for i, p := range gs.Players {
		c.Players[i] = p
		c.Players[i].OwnedTiles = append([]int(nil), p.OwnedTiles...)
	}
	for k := range gs.ChangedTiles {
		c.ChangedTiles[k] = struct{}{}
	}
	return c
}

// Snapshot is an immutable copy of the engine state at the end of a turn.
// Holders must not modify Board.
type Snapshot struct {
	Turn     int
	Priority int
	Board    *core.Board
}

// Fingerprint identifies the snapshot's board contents.
func (s Snapshot) Fingerprint() string {
	return s.Board.FingerprintHex()
}
