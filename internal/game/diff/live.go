package diff

import (
	"encoding/json"
	"fmt"

	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/observation"
)

// Terrain codes carried in the second half of the live map array.
const (
	TileEmpty       = -1
	TileMountain    = -2
	TileFog         = -3
	TileFogObstacle = -4
)

const mapHeaderLength = 2

// Score is the per-player summary sent with every update.
type Score struct {
	Armies int  `json:"total"`
	Tiles  int  `json:"tiles"`
	Index  int  `json:"i"`
	Dead   bool `json:"dead"`
}

// GameUpdate is one incremental server update.
type GameUpdate struct {
	AttackIndex int        `json:"attackIndex"`
	CitiesDiff  []int      `json:"cities_diff"`
	Generals    []int      `json:"generals"`
	MapDiff     []int      `json:"map_diff"`
	Scores      []Score    `json:"scores"`
	Stars       *[]float64 `json:"stars"`
	Turn        int        `json:"turn"`
}

// DecodeUpdate parses a JSON encoded update.
func DecodeUpdate(data []byte) (*GameUpdate, error) {
	var u GameUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	return &u, nil
}

// LiveState accumulates updates for one player. The map array is laid out
// as [width, height, armies..., terrain...].
type LiveState struct {
	PlayerIndex int
	Usernames   []string

	turn     int
	mapRaw   []int
	cities   []int
	generals []int
	scores   []Score
}

// Apply patches the map and city arrays. Either both patches succeed or
// the state is left unchanged.
func (s *LiveState) Apply(u *GameUpdate) error {
	mapRaw, err := Apply(s.mapRaw, u.MapDiff)
	if err != nil {
		return fmt.Errorf("map: %w", err)
	}
	cities, err := Apply(s.cities, u.CitiesDiff)
	if err != nil {
		return fmt.Errorf("cities: %w", err)
	}
	if len(mapRaw) < mapHeaderLength {
		return fmt.Errorf("%w: map array of %d has no dimensions", ErrMalformedDiff, len(mapRaw))
	}
	w, h := mapRaw[0], mapRaw[1]
	if w < 1 || h < 1 || len(mapRaw) != mapHeaderLength+2*w*h {
		return fmt.Errorf("%w: map array of %d does not match %dx%d", ErrMalformedDiff, len(mapRaw), w, h)
	}

	s.mapRaw = mapRaw
	s.cities = cities
	s.turn = u.Turn
	s.generals = append(s.generals[:0], u.Generals...)
	s.scores = append(s.scores[:0], u.Scores...)
	return nil
}

// Turn returns the turn of the last applied update
func (s *LiveState) Turn() int { return s.turn }

// Width returns the map width, or 0 before the first update
func (s *LiveState) Width() int {
	if len(s.mapRaw) < mapHeaderLength {
		return 0
	}
	return s.mapRaw[0]
}

// Height returns the map height, or 0 before the first update
func (s *LiveState) Height() int {
	if len(s.mapRaw) < mapHeaderLength {
		return 0
	}
	return s.mapRaw[1]
}

func (s *LiveState) size() int { return s.Width() * s.Height() }

// Armies returns a copy of the army section.
func (s *LiveState) Armies() []int {
	n := s.size()
	return append([]int(nil), s.mapRaw[mapHeaderLength:mapHeaderLength+n]...)
}

// Terrain returns a copy of the terrain section: owner index or one of the
// Tile codes.
func (s *LiveState) Terrain() []int {
	n := s.size()
	return append([]int(nil), s.mapRaw[mapHeaderLength+n:mapHeaderLength+2*n]...)
}

// Cities, Generals and Scores return copies of the last known values.
func (s *LiveState) Cities() []int   { return append([]int(nil), s.cities...) }
func (s *LiveState) Generals() []int { return append([]int(nil), s.generals...) }
func (s *LiveState) Scores() []Score { return append([]Score(nil), s.scores...) }

// numPlayers prefers the score table, which lists every player including
// dead ones, over the lobby usernames.
func (s *LiveState) numPlayers() int {
	if len(s.scores) > 0 {
		return len(s.scores)
	}
	return len(s.Usernames)
}

// HasPriority reports whether PlayerIndex resolves first on the next turn.
// Updates carry no priority field, so this follows the engine's rotation
// starting from player 0: after turn t the priority player is t mod players.
func (s *LiveState) HasPriority() bool {
	n := s.numPlayers()
	return n > 0 && s.turn%n == s.PlayerIndex
}

// Observation converts the accumulated state into the same view type the
// local engine produces. Returns nil before the first update.
func (s *LiveState) Observation() *observation.Observation {
	w, h := s.Width(), s.Height()
	if w == 0 || h == 0 {
		return nil
	}
	n := w * h
	obs := &observation.Observation{
		Width:    w,
		Height:   h,
		Turn:     s.turn,
		Player:   s.PlayerIndex,
		Priority: s.HasPriority(),
		Armies:   s.Armies(),
		Terrain:  make([]core.Terrain, n),
		Owners:   make([]int, n),
		Visible:  make([]bool, n),
	}
	for i, code := range s.Terrain() {
		switch {
		case code >= 0:
			obs.Owners[i] = code
			obs.Visible[i] = true
		case code == TileEmpty:
			obs.Owners[i] = core.NeutralID
			obs.Visible[i] = true
		case code == TileMountain:
			obs.Owners[i] = core.NeutralID
			obs.Terrain[i] = core.Mountain
			obs.Visible[i] = true
		case code == TileFogObstacle:
			obs.Owners[i] = observation.OwnerFog
			obs.Terrain[i] = core.Mountain
		default:
			obs.Owners[i] = observation.OwnerFog
		}
		if !obs.Visible[i] {
			obs.Armies[i] = 0
		}
	}
	for _, idx := range s.cities {
		if idx >= 0 && idx < n && obs.Visible[idx] {
			obs.Terrain[idx] = core.City
		}
	}
	for _, idx := range s.generals {
		if idx >= 0 && idx < n && obs.Visible[idx] {
			obs.Terrain[idx] = core.General
		}
	}
	return obs
}
