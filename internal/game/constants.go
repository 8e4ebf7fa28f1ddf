package game

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/genghis/internal/config"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/game/mapgen"
	"github.com/rs/zerolog"
)

// ProductionRules controls periodic growth and decay.
type ProductionRules struct {
	GeneralCityInterval int `json:"general_city_interval"` // owned Generals and Cities gain 1 army every N turns
	LandInterval        int `json:"land_interval"`         // every owned non-Desert tile gains 1 army every N turns
	SwampDecay          int `json:"swamp_decay"`           // owned Swamps lose this much army every turn
}

// DefaultProductionRules returns the standard growth intervals: structures
// every 2 turns, land every 50, swamps lose 1 per turn.
func DefaultProductionRules() ProductionRules {
	return ProductionRules{
		GeneralCityInterval: 2,
		LandInterval:        50,
		SwampDecay:          1,
	}
}

// ProductionRulesFromConfig converts the production section of the
// application config.
func ProductionRulesFromConfig(c config.ProductionConfig) ProductionRules {
	return ProductionRules{
		GeneralCityInterval: c.GeneralCityInterval,
		LandInterval:        c.LandInterval,
		SwampDecay:          c.SwampDecay,
	}
}

// Validate rejects non-positive intervals and negative swamp decay
func (r ProductionRules) Validate() error {
	if r.GeneralCityInterval < 1 {
		return fmt.Errorf("general/city interval must be positive, got %d", r.GeneralCityInterval)
	}
	if r.LandInterval < 1 {
		return fmt.Errorf("land interval must be positive, got %d", r.LandInterval)
	}
	if r.SwampDecay < 0 {
		return fmt.Errorf("swamp decay must not be negative, got %d", r.SwampDecay)
	}
	return nil
}

// GameConfig holds everything needed to build an Engine. Zero values are
// replaced with defaults by the initializer.
type GameConfig struct {
	Width   int
	Height  int
	Players int

	// Map overrides the generator settings derived from Width, Height and
	// Players when non-nil.
	Map        *mapgen.MapConfig
	Production ProductionRules
	// Priority is the player whose moves resolve first on turn 1.
	Priority int

	Rng      *rand.Rand
	GameID   string
	Logger   zerolog.Logger
	EventBus *events.EventBus // a private bus is created when nil
}
