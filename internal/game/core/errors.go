package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrMoveToSelf         = errors.New("cannot move to the same tile")
	ErrNotAdjacent        = errors.New("tiles are not adjacent")
	ErrNotOwned           = errors.New("tile not owned by player")
	ErrInsufficientArmy   = errors.New("insufficient army to move")
	ErrTargetIsMountain   = errors.New("cannot move onto a mountain")
	ErrInvalidPlayer      = errors.New("invalid player ID")
	ErrNoPlayers          = errors.New("no players in game")
	ErrGeneration         = errors.New("map generation failed")
)

// MoveError ties a rejection reason to the move that caused it.
type MoveError struct {
	Move Move
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("player %d: move from %s to %s: %v", e.Move.PlayerID, e.Move.From, e.Move.To, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// WrapMoveError returns nil when err is nil.
func WrapMoveError(m Move, err error) error {
	if err == nil {
		return nil
	}
	return &MoveError{Move: m, Err: err}
}

// GameStateError records the turn and phase in which a turn failed.
type GameStateError struct {
	Turn  int
	Phase string
	Err   error
}

func (e *GameStateError) Error() string {
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Phase, e.Err)
}

func (e *GameStateError) Unwrap() error { return e.Err }

// WrapGameStateError wraps an error with turn and phase context
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return &GameStateError{Turn: turn, Phase: phase, Err: err}
}

// GenerationError reports a placement stage that asked for more cells than
// were still plain.
type GenerationError struct {
	Stage     string
	Requested int
	Available int
	Reason    string
}

func (e *GenerationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s: %s", ErrGeneration, e.Stage, e.Reason)
	}
	return fmt.Sprintf("%v: %s: requested %d, only %d plain cells available",
		ErrGeneration, e.Stage, e.Requested, e.Available)
}

func (e *GenerationError) Unwrap() error { return ErrGeneration }
