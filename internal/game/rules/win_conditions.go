package rules

import "github.com/rs/zerolog"

// WinConditionChecker handles game over detection and winner determination.
// It only reports; callers decide whether to keep simulating.
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalPlayers int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, originalPlayers int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalPlayers: originalPlayers,
	}
}

// CheckGameOver determines if the game is over based on the number of alive players.
// Returns (isGameOver, winnerID); winnerID is -1 unless exactly one player is alive.
func (wc *WinConditionChecker) CheckGameOver(players []Player) (bool, int) {
	aliveCount := 0
	lastAliveID := -1

	for _, p := range players {
		if p.IsAlive() {
			aliveCount++
			lastAliveID = p.GetID()
		}
	}

	// Single-player sandboxes only end when the last general falls.
	var gameOver bool
	if wc.originalPlayers > 1 {
		gameOver = aliveCount <= 1
	} else {
		gameOver = aliveCount == 0
	}

	winnerID := -1
	if gameOver && aliveCount == 1 {
		winnerID = lastAliveID
	}

	wc.logger.Debug().
		Bool("is_game_over", gameOver).
		Int("alive_player_count", aliveCount).
		Int("winner_player_id", winnerID).
		Msg("Game over check complete")

	return gameOver, winnerID
}

// Leader returns the alive player with the largest army, breaking ties by
// land and then by lower ID. Returns -1 when nobody is alive. Used to name
// a winner when a game is stopped before it is over.
func (wc *WinConditionChecker) Leader(players []Player) int {
	leader := -1
	bestArmy, bestLand := 0, 0
	for _, p := range players {
		if !p.IsAlive() {
			continue
		}
		army, land := p.Score()
		if leader == -1 || army > bestArmy || (army == bestArmy && land > bestLand) {
			leader, bestArmy, bestLand = p.GetID(), army, land
		}
	}
	return leader
}

// Player interface to avoid circular imports
type Player interface {
	GetID() int
	IsAlive() bool
	Score() (army, land int)
}
