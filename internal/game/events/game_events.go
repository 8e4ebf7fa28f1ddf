package events

import (
	"time"

	"github.com/mitchelldurbincs/genghis/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted       = "game.started"
	TypeGameEnded         = "game.ended"
	TypeTurnEnded         = "turn.ended"
	TypeMoveExecuted      = "move.executed"
	TypeMoveRejected      = "move.rejected"
	TypeCombatResolved    = "combat.resolved"
	TypePlayerEliminated  = "player.eliminated"
	TypeProductionApplied = "production.applied"
	TypeReplaySeek        = "replay.seek"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	NumPlayers int
	MapWidth   int
	MapHeight  int
}

// NewGameStartedEvent creates a new game started event
func NewGameStartedEvent(gameID string, numPlayers, width, height int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  newBase(TypeGameStarted, gameID, 0),
		NumPlayers: numPlayers,
		MapWidth:   width,
		MapHeight:  height,
	}
}

// GameEndedEvent is published the first turn fewer than two Generals remain.
// Winner is -1 when nobody holds a General.
type GameEndedEvent struct {
	BaseEvent
	Winner int
}

// NewGameEndedEvent creates a new game ended event; winner is -1 for no survivor
func NewGameEndedEvent(gameID string, winner, turn int) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID, turn),
		Winner:    winner,
	}
}

// TurnEndedEvent is published once per processed turn
type TurnEndedEvent struct {
	BaseEvent
	MovesApplied  int
	MovesRejected int
	Priority      int
	ProcessedTime time.Duration
}

// NewTurnEndedEvent creates a new turn ended event
func NewTurnEndedEvent(gameID string, turn, applied, rejected, priority int, processed time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:     newBase(TypeTurnEnded, gameID, turn),
		MovesApplied:  applied,
		MovesRejected: rejected,
		Priority:      priority,
		ProcessedTime: processed,
	}
}

// MoveExecutedEvent is published for every move that passed validation
type MoveExecutedEvent struct {
	BaseEvent
	PlayerID    int
	From        core.Coordinate
	To          core.Coordinate
	ArmiesMoved int
	Split       bool
}

// NewMoveExecutedEvent creates a new move executed event
func NewMoveExecutedEvent(gameID string, turn int, res *core.MoveResult) *MoveExecutedEvent {
	return &MoveExecutedEvent{
		BaseEvent:   newBase(TypeMoveExecuted, gameID, turn),
		PlayerID:    res.Move.PlayerID,
		From:        res.Move.From,
		To:          res.Move.To,
		ArmiesMoved: res.Attack,
		Split:       res.Move.Split,
	}
}

// MoveRejectedEvent carries a move that failed validation and why
type MoveRejectedEvent struct {
	BaseEvent
	Move   core.Move
	Reason string
}

// NewMoveRejectedEvent creates a new move rejected event
func NewMoveRejectedEvent(gameID string, turn int, m core.Move, reason error) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBase(TypeMoveRejected, gameID, turn),
		Move:      m,
		Reason:    reason.Error(),
	}
}

// CombatResolvedEvent is published for moves into a tile the mover did not own.
type CombatResolvedEvent struct {
	BaseEvent
	AttackerID     int
	DefenderID     int
	Location       core.Coordinate
	AttackerArmies int
	DefenderArmies int
	Outcome        string
	TileCaptured   bool
}

// NewCombatResolvedEvent creates a new combat resolved event
func NewCombatResolvedEvent(gameID string, turn int, res *core.MoveResult) *CombatResolvedEvent {
	return &CombatResolvedEvent{
		BaseEvent:      newBase(TypeCombatResolved, gameID, turn),
		AttackerID:     res.Move.PlayerID,
		DefenderID:     res.PrevOwner,
		Location:       res.Move.To,
		AttackerArmies: res.Attack,
		DefenderArmies: res.Defend,
		Outcome:        res.Kind.String(),
		TileCaptured:   res.Kind == core.Captured,
	}
}

// PlayerEliminatedEvent is published when a player's General is captured.
type PlayerEliminatedEvent struct {
	BaseEvent
	PlayerID         int
	EliminatedBy     int
	TilesTransferred int
}

// NewPlayerEliminatedEvent creates a new player eliminated event.
// eliminatedBy is NeutralID when the General fell to a tie.
func NewPlayerEliminatedEvent(gameID string, turn, playerID, eliminatedBy, tiles int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent:        newBase(TypePlayerEliminated, gameID, turn),
		PlayerID:         playerID,
		EliminatedBy:     eliminatedBy,
		TilesTransferred: tiles,
	}
}

// ProductionAppliedEvent summarises a turn's growth and swamp decay
type ProductionAppliedEvent struct {
	BaseEvent
	StructuresGrown int
	LandGrown       int
	SwampsDecayed   int
	SwampsLost      int
}

// NewProductionAppliedEvent creates a new production applied event
func NewProductionAppliedEvent(gameID string, turn, structures, land, decayed, lost int) *ProductionAppliedEvent {
	return &ProductionAppliedEvent{
		BaseEvent:       newBase(TypeProductionApplied, gameID, turn),
		StructuresGrown: structures,
		LandGrown:       land,
		SwampsDecayed:   decayed,
		SwampsLost:      lost,
	}
}

// ReplaySeekEvent reports how a replay reached a target turn.
type ReplaySeekEvent struct {
	BaseEvent
	FromTurn       int
	CacheHit       bool
	SimulatedTurns int
}

// NewReplaySeekEvent creates a new replay seek event
func NewReplaySeekEvent(replayID string, target, from int, hit bool, simulated int) *ReplaySeekEvent {
	return &ReplaySeekEvent{
		BaseEvent:      newBase(TypeReplaySeek, replayID, target),
		FromTurn:       from,
		CacheHit:       hit,
		SimulatedTurns: simulated,
	}
}
