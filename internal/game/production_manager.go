package game

import (
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/rs/zerolog"
)

// ProductionManager applies army growth and swamp decay once per turn
type ProductionManager struct {
	rules     ProductionRules
	publisher events.Publisher
	gameID    string
	logger    zerolog.Logger
}

// ProductionSummary totals what one production pass did.
type ProductionSummary struct {
	StructuresGrown int // Generals and Cities that gained army
	LandGrown       int // tiles that gained army from the land interval
	SwampsDecayed   int
	SwampsLost      int // swamps that reverted to neutral
}

// NewProductionManager creates a new production manager. publisher may be nil.
func NewProductionManager(rules ProductionRules, publisher events.Publisher, gameID string, logger zerolog.Logger) *ProductionManager {
	return &ProductionManager{
		rules:     rules,
		publisher: publisher,
		gameID:    gameID,
		logger:    logger.With().Str("component", "ProductionManager").Logger(),
	}
}

// Apply runs production for turn, which is the turn number just reached.
// Only owned tiles are affected. Growth is applied before decay, so a swamp
// on a land turn nets zero. changed, when non-nil, collects touched tiles.
func (pm *ProductionManager) Apply(board *core.Board, turn int, changed map[int]struct{}) ProductionSummary {
	growStructures := turn%pm.rules.GeneralCityInterval == 0
	growLand := turn%pm.rules.LandInterval == 0

	var sum ProductionSummary
	for idx := range board.T {
		tile := &board.T[idx]
		if tile.IsNeutral() {
			continue
		}
		touched := false

		if growStructures && (tile.IsGeneral() || tile.IsCity()) {
			tile.Army++
			sum.StructuresGrown++
			touched = true
		}
		if growLand && !tile.IsDesert() {
			tile.Army++
			sum.LandGrown++
			touched = true
		}
		if tile.IsSwamp() && pm.rules.SwampDecay > 0 {
			tile.Army -= pm.rules.SwampDecay
			if tile.Army < 0 {
				tile.Army = 0
			}
			sum.SwampsDecayed++
			if tile.Army == 0 {
				tile.Owner = core.NeutralID
				sum.SwampsLost++
			}
			touched = true
		}

		if touched && changed != nil {
			changed[idx] = struct{}{}
		}
	}

	pm.logger.Debug().
		Int("turn", turn).
		Bool("grow_structures", growStructures).
		Bool("grow_land", growLand).
		Int("structures_grown", sum.StructuresGrown).
		Int("land_grown", sum.LandGrown).
		Int("swamps_lost", sum.SwampsLost).
		Msg("Turn production complete")

	pm.publishProductionEvent(turn, sum)
	return sum
}

// publishProductionEvent publishes a production event if anything changed
func (pm *ProductionManager) publishProductionEvent(turn int, sum ProductionSummary) {
	if pm.publisher == nil || sum == (ProductionSummary{}) {
		return
	}
	pm.publisher.Publish(events.NewProductionAppliedEvent(
		pm.gameID,
		turn,
		sum.StructuresGrown,
		sum.LandGrown,
		sum.SwampsDecayed,
		sum.SwampsLost,
	))
}
