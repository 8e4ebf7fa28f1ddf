package processor

import (
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/rs/zerolog"
)

// RejectedMove is a submitted move that failed validation when its turn
// to resolve came up.
type RejectedMove struct {
	Move core.Move
	Err  error
}

// Result summarises the resolution of one turn's moves.
type Result struct {
	Applied      []core.MoveResult
	Rejected     []RejectedMove
	Captures     []core.CaptureDetails
	Eliminations []core.EliminationOrder
}

// Batch groups one turn's input for ProcessMoves.
type Batch struct {
	Moves      []core.Move
	Priority   int
	NumPlayers int
	// Turn is the turn number the batch produces; used for event tagging.
	Turn int
}

// ActionProcessor resolves a turn's moves against the board.
type ActionProcessor struct {
	logger    zerolog.Logger
	publisher events.Publisher
	gameID    string
}

// NewActionProcessor creates a processor. publisher may be nil.
func NewActionProcessor(logger zerolog.Logger, publisher events.Publisher, gameID string) *ActionProcessor {
	return &ActionProcessor{
		logger:    logger.With().Str("component", "ActionProcessor").Logger(),
		publisher: publisher,
		gameID:    gameID,
	}
}

// ProcessMoves applies the batch in priority order: players are visited
// starting at Priority and wrapping around, and each player's moves run in
// submission order. Every move is validated against the board as it stands
// when reached; a failing move is recorded in Rejected and skipped.
// changed, when non-nil, collects touched tile indices.
func (ap *ActionProcessor) ProcessMoves(board *core.Board, adj *core.AdjacencyTable, batch Batch, changed map[int]struct{}) Result {
	var res Result

	perPlayer := make([][]core.Move, batch.NumPlayers)
	for _, m := range batch.Moves {
		if m.PlayerID < 0 || m.PlayerID >= batch.NumPlayers {
			ap.reject(&res, batch.Turn, m, core.ErrInvalidPlayer)
			continue
		}
		perPlayer[m.PlayerID] = append(perPlayer[m.PlayerID], m)
	}

	for k := 0; k < batch.NumPlayers; k++ {
		pid := (batch.Priority + k) % batch.NumPlayers
		for _, m := range perPlayer[pid] {
			applied, err := core.ApplyMove(board, adj, m, changed)
			if err != nil {
				ap.reject(&res, batch.Turn, m, err)
				continue
			}
			ap.record(&res, batch.Turn, applied)
		}
	}
	return res
}

func (ap *ActionProcessor) reject(res *Result, turn int, m core.Move, err error) {
	wrapped := core.WrapMoveError(m, err)
	res.Rejected = append(res.Rejected, RejectedMove{Move: m, Err: wrapped})
	ap.logger.Debug().Err(wrapped).Int("turn", turn).Msg("Move rejected")
	ap.publish(events.NewMoveRejectedEvent(ap.gameID, turn, m, err))
}

func (ap *ActionProcessor) record(res *Result, turn int, applied *core.MoveResult) {
	res.Applied = append(res.Applied, *applied)
	ap.logger.Debug().
		Int("turn", turn).
		Int("player_id", applied.Move.PlayerID).
		Str("from", applied.Move.From.String()).
		Str("to", applied.Move.To.String()).
		Int("armies", applied.Attack).
		Str("result", applied.Kind.String()).
		Msg("Move applied")
	ap.publish(events.NewMoveExecutedEvent(ap.gameID, turn, applied))

	if applied.Kind != core.Reinforced {
		ap.publish(events.NewCombatResolvedEvent(ap.gameID, turn, applied))
	}
	if applied.Capture == nil {
		return
	}
	res.Captures = append(res.Captures, *applied.Capture)
	for _, order := range core.EliminationOrders([]core.CaptureDetails{*applied.Capture}) {
		res.Eliminations = append(res.Eliminations, order)
		ap.logger.Info().
			Int("turn", turn).
			Int("eliminated", order.EliminatedPlayerID).
			Int("by", order.NewOwnerID).
			Int("tiles_transferred", applied.Capture.TransferredTiles).
			Msg("General captured")
		ap.publish(events.NewPlayerEliminatedEvent(ap.gameID, turn,
			order.EliminatedPlayerID, order.NewOwnerID, applied.Capture.TransferredTiles))
	}
}

func (ap *ActionProcessor) publish(e events.Event) {
	if ap.publisher != nil {
		ap.publisher.Publish(e)
	}
}
