package game

import (
	"math/rand"

	"github.com/mitchelldurbincs/genghis/internal/game/core"
)

// GenerateRandomMoves picks at most one random legal move for each alive
// player. Intended for demos, testing and simple baseline agents.
// activity is the chance in [0,1] that a player moves at all this turn.
func GenerateRandomMoves(g *Engine, rng *rand.Rand, activity float64) []core.Move {
	var moves []core.Move
	for _, player := range g.gs.Players {
		if !player.Alive {
			continue
		}
		if rng.Float64() >= activity {
			continue
		}
		legal := g.LegalMoves(player.ID)
		if len(legal) == 0 {
			continue
		}
		chosen := legal[rng.Intn(len(legal))]
		chosen.Split = rng.Float32() >= 0.7
		moves = append(moves, chosen)

		g.logger.Debug().
			Int("player_id", player.ID).
			Str("from", chosen.From.String()).
			Str("to", chosen.To.String()).
			Bool("split", chosen.Split).
			Msg("Generated random move")
	}
	return moves
}
