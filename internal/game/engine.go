package game

import (
	"context"
	"fmt"

	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/game/observation"
	"github.com/mitchelldurbincs/genghis/internal/game/processor"
	"github.com/mitchelldurbincs/genghis/internal/game/rules"
	"github.com/rs/zerolog"
)

// Engine owns one board and advances it turn by turn. It is not safe for
// concurrent use; callers serialise access.
type Engine struct {
	gs       *GameState
	adj      *core.AdjacencyTable
	gameOver bool
	winner   int
	logger   zerolog.Logger

	actionProcessor   *processor.ActionProcessor
	productionManager *ProductionManager
	turnProcessor     *TurnProcessor
	winCondition      *rules.WinConditionChecker
	legalMoves        *rules.LegalMoveCalculator

	eventBus *events.EventBus
	gameID   string
}

// TurnResult reports what a call to ProcessTurn did.
type TurnResult struct {
	Turn       int // turn number reached
	Applied    []core.MoveResult
	Rejected   []processor.RejectedMove
	Captures   []core.CaptureDetails
	Eliminated []int
	Production ProductionSummary
}

// NewEngine generates a map and returns an engine at turn 0.
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// NewEngineFromBoard wraps an existing board. The engine takes ownership of
// board; cfg.Players must cover every owner on it.
func NewEngineFromBoard(ctx context.Context, board *core.Board, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).InitializeFromBoard(ctx, board)
}

// ProcessTurn resolves one batch of moves, applies production and advances
// the turn counter and priority. Either the whole turn is applied or, on
// error, nothing is.
func (e *Engine) ProcessTurn(ctx context.Context, moves []core.Move) (*TurnResult, error) {
	return e.turnProcessor.ProcessTurn(ctx, moves)
}

// Snapshot copies the current board.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Turn:     e.gs.Turn,
		Priority: e.gs.Priority,
		Board:    e.gs.Board.Clone(),
	}
}

// Restore replaces the engine state with a copy of s.
func (e *Engine) Restore(s Snapshot) error {
	if s.Board == nil || s.Board.W != e.gs.Board.W || s.Board.H != e.gs.Board.H {
		return fmt.Errorf("restore turn %d: snapshot does not match a %dx%d board", s.Turn, e.gs.Board.W, e.gs.Board.H)
	}
	if s.Turn < 0 {
		return fmt.Errorf("restore: negative turn %d", s.Turn)
	}
	e.gs.Board = s.Board.Clone()
	e.gs.Turn = s.Turn
	e.gs.Priority = s.Priority
	clear(e.gs.ChangedTiles)
	// Seed alive flags so time travel does not log eliminations or revivals.
	for pid := range e.gs.Players {
		e.gs.Players[pid].Alive = e.gs.Board.GeneralOf(pid) != -1
	}
	e.updatePlayerStats()
	e.gameOver, e.winner = e.winCondition.CheckGameOver(e.playerViews())
	return nil
}

// Board returns the live board. Callers must treat it as read-only.
func (e *Engine) Board() *core.Board { return e.gs.Board }

func (e *Engine) Adjacency() *core.AdjacencyTable { return e.adj }
func (e *Engine) Turn() int                       { return e.gs.Turn }
func (e *Engine) Priority() int                   { return e.gs.Priority }
func (e *Engine) NumPlayers() int                 { return len(e.gs.Players) }
func (e *Engine) GameID() string                  { return e.gameID }
func (e *Engine) EventBus() *events.EventBus      { return e.eventBus }

// Players returns a copy of the per-player stats.
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.gs.Players))
	for i, p := range e.gs.Players {
		out[i] = p
		out[i].OwnedTiles = append([]int(nil), p.OwnedTiles...)
	}
	return out
}

// GameState returns a deep copy of the full state.
func (e *Engine) GameState() *GameState { return e.gs.Clone() }

// IsGameOver reports whether fewer than two players hold a General. The
// engine keeps accepting turns regardless.
func (e *Engine) IsGameOver() bool { return e.gameOver }

// GetWinner returns the winning player ID, or -1 if the game isn't over or
// ended without a survivor.
func (e *Engine) GetWinner() int {
	if !e.gameOver {
		return -1
	}
	return e.winner
}

// Leader returns the alive player currently ahead on army and land, or -1.
func (e *Engine) Leader() int {
	return e.winCondition.Leader(e.playerViews())
}

// LegalMoves lists the full-army moves player could make right now.
func (e *Engine) LegalMoves(player int) []core.Move {
	return e.legalMoves.LegalMoves(e.gs.Board, player)
}

// GetLegalActionMask returns the flattened action mask for player.
func (e *Engine) GetLegalActionMask(player int) []bool {
	if player < 0 || player >= len(e.gs.Players) {
		return make([]bool, len(e.gs.Board.T)*core.NumDirections)
	}
	return e.legalMoves.GetLegalActionMask(e.gs.Board, e.gs.Players[player])
}

// Observe returns player's fogged view of the current board.
func (e *Engine) Observe(player int) *observation.Observation {
	return observation.Observe(e.gs.Board, player, e.gs.Turn, player == e.gs.Priority)
}

// ObserveAll returns every player's view, indexed by player.
func (e *Engine) ObserveAll() []*observation.Observation {
	return observation.ObserveAll(e.gs.Board, len(e.gs.Players), e.gs.Turn, e.gs.Priority)
}

func (e *Engine) playerViews() []rules.Player {
	views := make([]rules.Player, len(e.gs.Players))
	for i := range e.gs.Players {
		views[i] = e.gs.Players[i]
	}
	return views
}

func (e *Engine) publish(ev events.Event) {
	if e.eventBus != nil {
		e.eventBus.Publish(ev)
	}
}
