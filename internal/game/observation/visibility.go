package observation

import "github.com/mitchelldurbincs/genghis/internal/game/core"

// OwnerFog is reported as the owner of every cell outside a player's vision.
// It is distinct from core.NeutralID so fogged and neutral cells never mix.
const OwnerFog = -2

// Precomputed offsets for the 3x3 vision pattern
var visibilityOffsets = [9]struct{ dx, dy int }{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// VisionMask marks every cell within Chebyshev distance 1 of a cell owned by
// player, plus every lit cell.
func VisionMask(b *core.Board, player int) []bool {
	mask := make([]bool, len(b.T))
	for idx := range b.T {
		t := &b.T[idx]
		if t.Lit {
			mask[idx] = true
		}
		if t.Owner != player || player < 0 {
			continue
		}
		forEachAround(b, idx, func(n int) { mask[n] = true })
	}
	return mask
}

// VisionBits computes every player's vision in one pass. Bit p of the
// returned value for a cell is set when player p sees it. Players beyond 32
// are ignored.
func VisionBits(b *core.Board, numPlayers int) []uint32 {
	var all uint32
	for p := 0; p < numPlayers && p < 32; p++ {
		all |= 1 << uint(p)
	}
	bits := make([]uint32, len(b.T))
	for idx := range b.T {
		t := &b.T[idx]
		if t.Lit {
			bits[idx] |= all
		}
		if t.Owner < 0 || t.Owner >= numPlayers || t.Owner >= 32 {
			continue
		}
		playerBit := uint32(1) << uint(t.Owner)
		forEachAround(b, idx, func(n int) { bits[n] |= playerBit })
	}
	return bits
}

func forEachAround(b *core.Board, idx int, fn func(int)) {
	x, y := b.XY(idx)
	for _, off := range visibilityOffsets {
		nx, ny := x+off.dx, y+off.dy
		if b.InBounds(nx, ny) {
			fn(b.Idx(nx, ny))
		}
	}
}

// Obfuscate returns the terrain a player is shown for a cell they cannot see.
func Obfuscate(t core.Terrain) core.Terrain {
	switch t {
	case core.General, core.Desert:
		return core.Plain
	case core.City, core.Observatory, core.Lookout:
		return core.Mountain
	default:
		return t
	}
}

// Observe derives player's view of b. The board is not modified.
func Observe(b *core.Board, player, turn int, priority bool) *Observation {
	return fromMask(b, player, turn, priority, VisionMask(b, player))
}

// ObserveAll builds one observation per player, sharing a single vision pass.
// Observations are indexed by player; the priority flag is set on the entry
// for priorityPlayer.
func ObserveAll(b *core.Board, numPlayers, turn, priorityPlayer int) []*Observation {
	bits := VisionBits(b, numPlayers)
	out := make([]*Observation, numPlayers)
	mask := make([]bool, len(b.T))
	for p := 0; p < numPlayers; p++ {
		if p >= 32 {
			out[p] = Observe(b, p, turn, p == priorityPlayer)
			continue
		}
		bit := uint32(1) << uint(p)
		for i := range bits {
			mask[i] = bits[i]&bit != 0
		}
		out[p] = fromMask(b, p, turn, p == priorityPlayer, mask)
	}
	return out
}

func fromMask(b *core.Board, player, turn int, priority bool, mask []bool) *Observation {
	n := len(b.T)
	obs := &Observation{
		Width:    b.W,
		Height:   b.H,
		Turn:     turn,
		Player:   player,
		Priority: priority,
		Armies:   make([]int, n),
		Terrain:  make([]core.Terrain, n),
		Owners:   make([]int, n),
		Visible:  make([]bool, n),
	}
	copy(obs.Visible, mask)
	for i := range b.T {
		t := &b.T[i]
		if mask[i] {
			obs.Armies[i] = t.Army
			obs.Terrain[i] = t.Type
			obs.Owners[i] = t.Owner
			continue
		}
		obs.Terrain[i] = Obfuscate(t.Type)
		obs.Owners[i] = OwnerFog
	}
	return obs
}
