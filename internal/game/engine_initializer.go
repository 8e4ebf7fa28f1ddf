package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/game/mapgen"
	"github.com/mitchelldurbincs/genghis/internal/game/processor"
	"github.com/mitchelldurbincs/genghis/internal/game/rules"
	"github.com/rs/zerolog"
)

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize generates a map and creates an engine at turn 0
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	if err := ei.checkContext(ctx); err != nil {
		return nil, err
	}
	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}

	board, err := ei.generateMap()
	if err != nil {
		ei.logger.Error().Err(err).Msg("Map generation failed")
		return nil, fmt.Errorf("map generation failed: %w", err)
	}
	return ei.build(board)
}

// InitializeFromBoard creates an engine around an existing board
func (ei *EngineInitializer) InitializeFromBoard(ctx context.Context, board *core.Board) (*Engine, error) {
	if err := ei.checkContext(ctx); err != nil {
		return nil, err
	}
	if board == nil || board.W < 1 || board.H < 1 || len(board.T) != board.W*board.H {
		return nil, errors.New("invalid board: dimensions do not match tiles")
	}
	if ei.config.Players == 0 {
		ei.config.Players = countOwners(board)
	}
	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}
	for idx := range board.T {
		if owner := board.T[idx].Owner; owner >= ei.config.Players || owner < core.NeutralID {
			return nil, fmt.Errorf("tile %d owned by %d: %w", idx, owner, core.ErrInvalidPlayer)
		}
	}
	return ei.build(board)
}

func (ei *EngineInitializer) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return ctx.Err()
	default:
		return nil
	}
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() error {
	if ei.config.Players < 1 {
		return core.ErrNoPlayers
	}
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}
	if ei.config.Production == (ProductionRules{}) {
		ei.config.Production = DefaultProductionRules()
	}
	if err := ei.config.Production.Validate(); err != nil {
		return fmt.Errorf("production rules: %w", err)
	}
	if ei.config.Priority < 0 || ei.config.Priority >= ei.config.Players {
		return fmt.Errorf("priority player %d: %w", ei.config.Priority, core.ErrInvalidPlayer)
	}
	return nil
}

// generateMap generates the game map
func (ei *EngineInitializer) generateMap() (*core.Board, error) {
	var mapCfg mapgen.MapConfig
	if ei.config.Map != nil {
		mapCfg = *ei.config.Map
		mapCfg.PlayerCount = ei.config.Players
	} else {
		mapCfg = mapgen.DefaultMapConfig(ei.config.Width, ei.config.Height, ei.config.Players)
	}
	generator := mapgen.NewGenerator(mapCfg, ei.config.Rng)
	return generator.GenerateMap()
}

// build creates the engine with all its components
func (ei *EngineInitializer) build(board *core.Board) (*Engine, error) {
	eventBus := ei.config.EventBus
	if eventBus == nil {
		eventBus = events.NewEventBus(ei.logger)
	}
	gameID := ei.config.GameID
	logger := ei.logger.With().Str("game_id", gameID).Logger()

	engine := &Engine{
		gs: &GameState{
			Board:        board,
			Players:      make([]Player, ei.config.Players),
			Priority:     ei.config.Priority,
			ChangedTiles: make(map[int]struct{}),
		},
		adj:             core.NewAdjacencyTable(board.W, board.H),
		winner:          -1,
		logger:          logger,
		actionProcessor: processor.NewActionProcessor(logger, eventBus, gameID),
		winCondition:    rules.NewWinConditionChecker(logger, ei.config.Players),
		eventBus:        eventBus,
		gameID:          gameID,
	}
	for i := range engine.gs.Players {
		engine.gs.Players[i] = Player{ID: i, GeneralIdx: -1, OwnedTiles: make([]int, 0, 50)}
	}
	engine.legalMoves = rules.NewLegalMoveCalculator(engine.adj)
	engine.productionManager = NewProductionManager(ei.config.Production, eventBus, gameID, logger)
	engine.turnProcessor = NewTurnProcessor(engine)

	engine.updatePlayerStats()
	engine.gameOver, engine.winner = engine.winCondition.CheckGameOver(engine.playerViews())

	engine.publish(events.NewGameStartedEvent(gameID, ei.config.Players, board.W, board.H))
	ei.logger.Info().
		Str("game_id", gameID).
		Int("width", board.W).
		Int("height", board.H).
		Int("players", ei.config.Players).
		Int("priority", ei.config.Priority).
		Msg("Engine created successfully")

	return engine, nil
}

func countOwners(board *core.Board) int {
	n := 0
	for idx := range board.T {
		if owner := board.T[idx].Owner; owner+1 > n {
			n = owner + 1
		}
	}
	return n
}
