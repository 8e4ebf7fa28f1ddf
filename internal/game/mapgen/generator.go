package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mitchelldurbincs/genghis/internal/config"
	"github.com/mitchelldurbincs/genghis/internal/game/core"
)

// DensityMode selects how many cities or mountains a map receives.
type DensityMode int

const (
	// ModeUniform places round(density * W * H) cells.
	ModeUniform DensityMode = iota
	// ModeBalanced uses the player-scaled formulas of the public game.
	ModeBalanced
)

// ParseDensityMode converts a config string ("uniform" or "balanced") to a DensityMode
func ParseDensityMode(s string) (DensityMode, error) {
	switch s {
	case "uniform":
		return ModeUniform, nil
	case "balanced":
		return ModeBalanced, nil
	}
	return 0, fmt.Errorf("unknown density mode %q", s)
}

// MapConfig holds configuration for map generation. Width/Height take
// precedence; when zero, the dimension is drawn from [Min, Max).
type MapConfig struct {
	Width, Height        int
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
	PlayerCount          int

	CityMode        DensityMode
	CityDensity     float64
	MountainMode    DensityMode
	MountainDensity float64
	SwampCount      int
	DesertCount     int

	// City armies are drawn from [MinCityArmy, MaxCityArmy).
	MinCityArmy int
	MaxCityArmy int

	MinGeneralSpacing    int
	MaxPlacementAttempts int

	// GeneralPositions, when set, fixes where each player's General goes.
	GeneralPositions []core.Coordinate
}

// DefaultMapConfig returns a balanced configuration for a fixed-size map.
func DefaultMapConfig(w, h, players int) MapConfig {
	return MapConfig{
		Width:                w,
		Height:               h,
		PlayerCount:          players,
		CityMode:             ModeBalanced,
		CityDensity:          0.05,
		MountainMode:         ModeBalanced,
		MountainDensity:      0.2,
		SwampCount:           3,
		MinCityArmy:          40,
		MaxCityArmy:          50,
		MaxPlacementAttempts: 100,
	}
}

// FromConfig converts file/env settings into a generator config.
func FromConfig(players int, m config.MapConfig) (MapConfig, error) {
	cityMode, err := ParseDensityMode(m.CityMode)
	if err != nil {
		return MapConfig{}, fmt.Errorf("city mode: %w", err)
	}
	mountainMode, err := ParseDensityMode(m.MountainMode)
	if err != nil {
		return MapConfig{}, fmt.Errorf("mountain mode: %w", err)
	}
	return MapConfig{
		Width:                m.Width,
		Height:               m.Height,
		MinWidth:             m.MinWidth,
		MaxWidth:             m.MaxWidth,
		MinHeight:            m.MinHeight,
		MaxHeight:            m.MaxHeight,
		PlayerCount:          players,
		CityMode:             cityMode,
		CityDensity:          m.CityDensity,
		MountainMode:         mountainMode,
		MountainDensity:      m.MountainDensity,
		SwampCount:           m.SwampCount,
		DesertCount:          m.DesertCount,
		MinCityArmy:          m.MinCityArmy,
		MaxCityArmy:          m.MaxCityArmy,
		MinGeneralSpacing:    m.MinGeneralSpacing,
		MaxPlacementAttempts: m.MaxPlacementAttempts,
	}, nil
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator using rng for every random draw
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap builds a board. Placement runs General, City, Mountain,
// Swamp, Desert; every stage picks distinct cells that are still Plain.
// The same seed and config always produce the same board.
func (g *Generator) GenerateMap() (*core.Board, error) {
	w, h, err := g.dimensions()
	if err != nil {
		return nil, err
	}
	if g.config.PlayerCount < 1 {
		return nil, &core.GenerationError{Stage: "players", Reason: "at least one player is required"}
	}

	b := core.NewBoard(w, h)
	if err := g.placeGenerals(b); err != nil {
		return nil, err
	}
	if err := g.placeCities(b, g.cityCount(w, h)); err != nil {
		return nil, err
	}
	if err := g.placeTerrain(b, "mountains", core.Mountain, g.mountainCount(w, h)); err != nil {
		return nil, err
	}
	if err := g.placeTerrain(b, "swamps", core.Swamp, g.config.SwampCount); err != nil {
		return nil, err
	}
	if err := g.placeTerrain(b, "deserts", core.Desert, g.config.DesertCount); err != nil {
		return nil, err
	}
	return b, nil
}

func (g *Generator) dimensions() (int, int, error) {
	w, err := g.drawDimension("width", g.config.Width, g.config.MinWidth, g.config.MaxWidth)
	if err != nil {
		return 0, 0, err
	}
	h, err := g.drawDimension("height", g.config.Height, g.config.MinHeight, g.config.MaxHeight)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func (g *Generator) drawDimension(name string, fixed, lo, hi int) (int, error) {
	if fixed > 0 {
		return fixed, nil
	}
	if lo <= 0 || hi <= lo {
		return 0, &core.GenerationError{
			Stage:  name,
			Reason: fmt.Sprintf("need a fixed %s or a range with 0 < min < max, got [%d, %d)", name, lo, hi),
		}
	}
	return lo + g.rng.Intn(hi-lo), nil
}

func (g *Generator) cityCount(w, h int) int {
	if g.config.CityMode == ModeBalanced {
		return roundInt(5 + float64(g.config.PlayerCount)*(2+g.rng.Float64()))
	}
	return roundInt(g.config.CityDensity * float64(w*h))
}

func (g *Generator) mountainCount(w, h int) int {
	if g.config.MountainMode == ModeBalanced {
		return roundInt(float64(w*h)*0.2 + 0.08*g.rng.Float64())
	}
	return roundInt(g.config.MountainDensity * float64(w*h))
}

func roundInt(f float64) int { return int(math.Round(f)) }

func (g *Generator) placeGenerals(b *core.Board) error {
	if len(g.config.GeneralPositions) > 0 {
		return g.placeFixedGenerals(b)
	}

	attempts := g.config.MaxPlacementAttempts
	if attempts < 1 {
		attempts = 1
	}
	for try := 0; try < attempts; try++ {
		picked, err := g.sample(b, "generals", g.config.PlayerCount)
		if err != nil {
			return err
		}
		if !g.spaced(b, picked) {
			continue
		}
		for pid, idx := range picked {
			setGeneral(&b.T[idx], pid)
		}
		return nil
	}
	return &core.GenerationError{
		Stage:  "generals",
		Reason: fmt.Sprintf("no placement with minimum spacing %d found after %d attempts",
			g.config.MinGeneralSpacing, attempts),
	}
}

func (g *Generator) placeFixedGenerals(b *core.Board) error {
	positions := g.config.GeneralPositions
	if len(positions) != g.config.PlayerCount {
		return &core.GenerationError{
			Stage:  "generals",
			Reason: fmt.Sprintf("%d general positions given for %d players", len(positions), g.config.PlayerCount),
		}
	}
	for pid, c := range positions {
		if !c.IsValid(b.W, b.H) {
			return &core.GenerationError{Stage: "generals", Reason: fmt.Sprintf("position %s is off the board", c)}
		}
		t := &b.T[c.ToIndex(b.W)]
		if t.Type != core.Plain {
			return &core.GenerationError{Stage: "generals", Reason: fmt.Sprintf("position %s used twice", c)}
		}
		setGeneral(t, pid)
	}
	return nil
}

func setGeneral(t *core.Tile, pid int) {
	t.Type = core.General
	t.Owner = pid
	t.Army = 1
}

func (g *Generator) spaced(b *core.Board, picked []int) bool {
	if g.config.MinGeneralSpacing <= 0 {
		return true
	}
	for i := range picked {
		for j := i + 1; j < len(picked); j++ {
			if b.Coord(picked[i]).DistanceTo(b.Coord(picked[j])) < g.config.MinGeneralSpacing {
				return false
			}
		}
	}
	return true
}

func (g *Generator) placeCities(b *core.Board, n int) error {
	picked, err := g.sample(b, "cities", n)
	if err != nil {
		return err
	}
	lo, hi := g.config.MinCityArmy, g.config.MaxCityArmy
	for _, idx := range picked {
		t := &b.T[idx]
		t.Type = core.City
		t.Army = lo
		if hi > lo {
			t.Army += g.rng.Intn(hi - lo)
		}
	}
	return nil
}

func (g *Generator) placeTerrain(b *core.Board, stage string, terrain core.Terrain, n int) error {
	picked, err := g.sample(b, stage, n)
	if err != nil {
		return err
	}
	for _, idx := range picked {
		b.T[idx].Type = terrain
	}
	return nil
}

// sample picks n distinct Plain cells with a partial Fisher-Yates shuffle.
func (g *Generator) sample(b *core.Board, stage string, n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	plain := make([]int, 0, len(b.T))
	for i := range b.T {
		if b.T[i].Type == core.Plain {
			plain = append(plain, i)
		}
	}
	if n > len(plain) {
		return nil, &core.GenerationError{Stage: stage, Requested: n, Available: len(plain)}
	}
	for i := 0; i < n; i++ {
		j := i + g.rng.Intn(len(plain)-i)
		plain[i], plain[j] = plain[j], plain[i]
	}
	return plain[:n], nil
}
