package game

import (
	"context"
	"time"

	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/game/processor"
	"github.com/rs/zerolog"
)

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn executes a complete game turn. Cancellation and contract
// checks run before anything is mutated; once resolution starts the turn
// always completes.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context, moves []core.Move) (*TurnResult, error) {
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return nil, core.WrapGameStateError(tp.engine.gs.Turn, "turn start", err)
	}
	if err := tp.validateGameState(); err != nil {
		return nil, err
	}

	gs := tp.engine.gs
	clear(gs.ChangedTiles)
	turnStartTime := time.Now()
	turnLogger := tp.logger.With().Int("turn", gs.Turn+1).Logger()
	turnLogger.Debug().Int("num_moves_submitted", len(moves)).Int("priority", gs.Priority).Msg("Starting game step")

	res := tp.processActionsPhase(moves, turnLogger)

	gs.Turn++
	production := tp.engine.productionManager.Apply(gs.Board, gs.Turn, gs.ChangedTiles)
	gs.Priority = (gs.Priority + 1) % len(gs.Players)

	eliminated := tp.processEndOfTurnPhase(res.Eliminations, turnLogger)

	result := &TurnResult{
		Turn:       gs.Turn,
		Applied:    res.Applied,
		Rejected:   res.Rejected,
		Captures:   res.Captures,
		Eliminated: eliminated,
		Production: production,
	}
	tp.publishTurnEnded(turnStartTime, result)

	turnLogger.Debug().
		Int("applied", len(res.Applied)).
		Int("rejected", len(res.Rejected)).
		Int("changed_tiles", len(gs.ChangedTiles)).
		Msg("Game step finished")
	return result, nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.gs.Turn).
			Str("phase", phase).
			Msg("Game step cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// validateGameState ensures the engine can resolve a turn
func (tp *TurnProcessor) validateGameState() error {
	if len(tp.engine.gs.Players) == 0 {
		tp.logger.Warn().
			Int("turn", tp.engine.gs.Turn).
			Msg("Attempted to step game with no players")
		return core.WrapGameStateError(tp.engine.gs.Turn, "step", core.ErrNoPlayers)
	}
	return nil
}

// processActionsPhase resolves the submitted moves in priority order
func (tp *TurnProcessor) processActionsPhase(moves []core.Move, turnLogger zerolog.Logger) processor.Result {
	gs := tp.engine.gs
	res := tp.engine.actionProcessor.ProcessMoves(gs.Board, tp.engine.adj, processor.Batch{
		Moves:      moves,
		Priority:   gs.Priority,
		NumPlayers: len(gs.Players),
		Turn:       gs.Turn + 1,
	}, gs.ChangedTiles)

	for _, r := range res.Rejected {
		turnLogger.Warn().Err(r.Err).Msg("Move rejected")
	}
	return res
}

// processEndOfTurnPhase refreshes player stats and runs the win check.
// Players who died without a capture (a General tied down to neutral)
// get their PlayerEliminated event here; captures already published one.
func (tp *TurnProcessor) processEndOfTurnPhase(captured []core.EliminationOrder, turnLogger zerolog.Logger) []int {
	eliminated := tp.engine.updatePlayerStats()
	for _, pid := range eliminated {
		if eliminatedByCapture(captured, pid) {
			continue
		}
		tp.engine.publish(events.NewPlayerEliminatedEvent(tp.engine.gameID, tp.engine.gs.Turn, pid, core.NeutralID, 0))
	}
	tp.engine.checkGameOver()
	if len(eliminated) > 0 {
		turnLogger.Info().Ints("eliminated", eliminated).Msg("Players eliminated this turn")
	}
	return eliminated
}

func eliminatedByCapture(orders []core.EliminationOrder, pid int) bool {
	for _, o := range orders {
		if o.EliminatedPlayerID == pid {
			return true
		}
	}
	return false
}

// publishTurnEnded publishes the turn ended event
func (tp *TurnProcessor) publishTurnEnded(startTime time.Time, result *TurnResult) {
	tp.engine.publish(events.NewTurnEndedEvent(
		tp.engine.gameID,
		result.Turn,
		len(result.Applied),
		len(result.Rejected),
		tp.engine.gs.Priority,
		time.Since(startTime),
	))
}
