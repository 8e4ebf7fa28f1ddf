// Package replay stores finished games as an initial board plus a move log
// and reconstructs the board at any turn.
package replay

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/genghis/internal/game"
	"github.com/mitchelldurbincs/genghis/internal/game/core"
)

const FormatVersion = 1

var (
	ErrInvalidReplay  = errors.New("invalid replay")
	ErrReplayNotFound = errors.New("replay not found")
	ErrNegativeTurn   = errors.New("turn must be non-negative")
)

// PlayerInfo names a player and the General cell they start on (-1 if none)
type PlayerInfo struct {
	Index    int    `json:"index"`
	Username string `json:"username"`
	General  int    `json:"general"`
}

// Entry is a move submitted during Turn. It is resolved by the turn that
// advances the board from Turn to Turn+1.
type Entry struct {
	Turn int       `json:"turn"`
	Move core.Move `json:"move"`
}

// Replay is the static description of a game. Cell positions are row-major
// indices; CityArmies[i] is the starting army of Cities[i].
type Replay struct {
	ID       string       `json:"id"`
	Version  int          `json:"version"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Priority int          `json:"priority"`
	Players  []PlayerInfo `json:"players"`
	// Production is the rule set the game was played with; nil means
	// the defaults.
	Production *game.ProductionRules `json:"production,omitempty"`

	Cities        []int `json:"cities"`
	CityArmies    []int `json:"city_armies"`
	Mountains     []int `json:"mountains"`
	Generals      []int `json:"generals"`
	Swamps        []int `json:"swamps,omitempty"`
	Deserts       []int `json:"deserts,omitempty"`
	Lookouts      []int `json:"lookouts,omitempty"`
	Observatories []int `json:"observatories,omitempty"`

	Moves []Entry `json:"moves"`
}

// FromBoard captures a turn-0 board. usernames fixes the player count;
// missing names are left empty.
func FromBoard(id string, b *core.Board, players int, usernames ...string) *Replay {
	r := &Replay{
		ID:      id,
		Version: FormatVersion,
		Width:   b.W,
		Height:  b.H,
		Players: make([]PlayerInfo, players),
	}
	for p := range r.Players {
		r.Players[p] = PlayerInfo{Index: p, General: b.GeneralOf(p)}
		if p < len(usernames) {
			r.Players[p].Username = usernames[p]
		}
	}
	for idx, t := range b.T {
		switch t.Type {
		case core.City:
			r.Cities = append(r.Cities, idx)
			r.CityArmies = append(r.CityArmies, t.Army)
		case core.Mountain:
			r.Mountains = append(r.Mountains, idx)
		case core.General:
			r.Generals = append(r.Generals, idx)
		case core.Swamp:
			r.Swamps = append(r.Swamps, idx)
		case core.Desert:
			r.Deserts = append(r.Deserts, idx)
		case core.Lookout:
			r.Lookouts = append(r.Lookouts, idx)
		case core.Observatory:
			r.Observatories = append(r.Observatories, idx)
		}
	}
	return r
}

// Turns is one past the last turn with a recorded move.
func (r *Replay) Turns() int {
	n := 0
	for _, e := range r.Moves {
		if e.Turn+1 > n {
			n = e.Turn + 1
		}
	}
	return n
}

// InitialBoard rebuilds the turn-0 board. Generals start with one army and
// belong to the player whose general they are; everything else is neutral.
func (r *Replay) InitialBoard() (*core.Board, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	b := core.NewBoard(r.Width, r.Height)
	for i, idx := range r.Cities {
		b.T[idx].Type = core.City
		b.T[idx].Army = r.CityArmies[i]
	}
	mark := func(cells []int, t core.Terrain) {
		for _, idx := range cells {
			b.T[idx].Type = t
		}
	}
	mark(r.Mountains, core.Mountain)
	mark(r.Swamps, core.Swamp)
	mark(r.Deserts, core.Desert)
	mark(r.Lookouts, core.Lookout)
	mark(r.Observatories, core.Observatory)
	for _, idx := range r.Generals {
		b.T[idx].Type = core.General
		b.T[idx].Army = 1
	}
	for _, p := range r.Players {
		if p.General >= 0 {
			b.T[p.General].Owner = p.Index
		}
	}
	return b, nil
}

// Validate checks dimensions, cell indices, players and move turns.
func (r *Replay) Validate() error {
	if r.Width < 1 || r.Height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidReplay, r.Width, r.Height)
	}
	if len(r.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalidReplay)
	}
	if len(r.Cities) != len(r.CityArmies) {
		return fmt.Errorf("%w: %d cities but %d city armies", ErrInvalidReplay, len(r.Cities), len(r.CityArmies))
	}
	n := r.Width * r.Height
	seen := make(map[int]string, len(r.Cities)+len(r.Mountains)+len(r.Generals))
	for _, group := range []struct {
		name  string
		cells []int
	}{
		{"cities", r.Cities},
		{"mountains", r.Mountains},
		{"generals", r.Generals},
		{"swamps", r.Swamps},
		{"deserts", r.Deserts},
		{"lookouts", r.Lookouts},
		{"observatories", r.Observatories},
	} {
		for _, idx := range group.cells {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: %s cell %d outside %dx%d", ErrInvalidReplay, group.name, idx, r.Width, r.Height)
			}
			if prev, ok := seen[idx]; ok {
				return fmt.Errorf("%w: cell %d listed in both %s and %s", ErrInvalidReplay, idx, prev, group.name)
			}
			seen[idx] = group.name
		}
	}
	// Every General cell belongs to exactly one player; a player without a
	// General (-1) starts eliminated.
	claimed := make(map[int]int, len(r.Generals))
	for i, p := range r.Players {
		if p.Index != i {
			return fmt.Errorf("%w: player %d has index %d", ErrInvalidReplay, i, p.Index)
		}
		if p.General == -1 {
			continue
		}
		if p.General < 0 || seen[p.General] != "generals" {
			return fmt.Errorf("%w: player %d general %d is not a general cell", ErrInvalidReplay, i, p.General)
		}
		if owner, ok := claimed[p.General]; ok {
			return fmt.Errorf("%w: general %d claimed by players %d and %d", ErrInvalidReplay, p.General, owner, i)
		}
		claimed[p.General] = i
	}
	for _, idx := range r.Generals {
		if _, ok := claimed[idx]; !ok {
			return fmt.Errorf("%w: general %d has no player", ErrInvalidReplay, idx)
		}
	}
	if r.Production != nil {
		if err := r.Production.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidReplay, err)
		}
	}
	if r.Priority < 0 || r.Priority >= len(r.Players) {
		return fmt.Errorf("%w: priority %d with %d players", ErrInvalidReplay, r.Priority, len(r.Players))
	}
	for i, e := range r.Moves {
		if e.Turn < 0 {
			return fmt.Errorf("%w: move %d at negative turn %d", ErrInvalidReplay, i, e.Turn)
		}
		if e.Move.PlayerID < 0 || e.Move.PlayerID >= len(r.Players) {
			return fmt.Errorf("%w: move %d by unknown player %d", ErrInvalidReplay, i, e.Move.PlayerID)
		}
	}
	return nil
}

// movesByTurn groups the log per turn, keeping recorded order within a turn.
func (r *Replay) movesByTurn() map[int][]core.Move {
	entries := append([]Entry(nil), r.Moves...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Turn < entries[j].Turn })
	byTurn := make(map[int][]core.Move)
	for _, e := range entries {
		byTurn[e.Turn] = append(byTurn[e.Turn], e.Move)
	}
	return byTurn
}

// Recorder appends moves to a replay while a game is played.
type Recorder struct {
	replay *Replay
}

// NewRecorder appends to r
func NewRecorder(r *Replay) *Recorder {
	return &Recorder{replay: r}
}

// Record logs the batch submitted during turn.
func (rec *Recorder) Record(turn int, moves []core.Move) {
	for _, m := range moves {
		rec.replay.Moves = append(rec.replay.Moves, Entry{Turn: turn, Move: m})
	}
}

func (rec *Recorder) Replay() *Replay { return rec.replay }
