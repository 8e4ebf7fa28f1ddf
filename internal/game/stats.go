package game

import "github.com/mitchelldurbincs/genghis/internal/game/events"

// This file contains all player statistics management functionality for the game engine.

// updatePlayerStats recalculates every player's army, land, general and
// alive status from the board. It returns the players who lost their General
// since the previous update.
func (e *Engine) updatePlayerStats() []int {
	players := e.gs.Players
	for pid := range players {
		players[pid].ArmyCount = 0
		players[pid].Land = 0
		players[pid].GeneralIdx = -1
		players[pid].OwnedTiles = players[pid].OwnedTiles[:0] // Clear but keep capacity
	}

	for idx := range e.gs.Board.T {
		t := &e.gs.Board.T[idx]
		if t.Owner < 0 || t.Owner >= len(players) {
			continue
		}
		p := &players[t.Owner]
		p.ArmyCount += t.Army
		p.Land++
		p.OwnedTiles = append(p.OwnedTiles, idx)
		if t.IsGeneral() {
			p.GeneralIdx = idx
		}
	}

	var eliminated []int
	for pid := range players {
		wasAlive := players[pid].Alive
		players[pid].Alive = players[pid].GeneralIdx != -1
		if wasAlive && !players[pid].Alive {
			e.logger.Info().Int("player_id", pid).Int("turn", e.gs.Turn).Msg("Player lost their general and is now marked as dead")
			eliminated = append(eliminated, pid)
		} else if !wasAlive && players[pid].Alive && e.gs.Turn > 0 {
			e.logger.Warn().Int("player_id", pid).Msg("Player was dead and is now marked as alive - unexpected general appearance?")
		}
	}
	return eliminated
}

// checkGameOver records the win check result. The engine keeps simulating
// after the game is over; only the first transition publishes GameEnded.
func (e *Engine) checkGameOver() {
	over, winner := e.winCondition.CheckGameOver(e.playerViews())
	if over && !e.gameOver {
		e.logger.Info().Int("winner", winner).Int("turn", e.gs.Turn).Msg("Game over")
		e.publish(events.NewGameEndedEvent(e.gameID, winner, e.gs.Turn))
	}
	e.gameOver = over
	e.winner = winner
}
