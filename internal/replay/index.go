package replay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/genghis/internal/game"
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/game/observation"
	"github.com/rs/zerolog"
)

type indexOptions struct {
	logger     zerolog.Logger
	bus        *events.EventBus
	production game.ProductionRules
}

// Option configures an Index
type Option func(*indexOptions)

// WithLogger sets the logger for the index and its engine
func WithLogger(l zerolog.Logger) Option {
	return func(o *indexOptions) { o.logger = l }
}

// WithEventBus shares a bus with the underlying engine so subscribers see
// both the simulated turns and the seek events.
func WithEventBus(bus *events.EventBus) Option {
	return func(o *indexOptions) { o.bus = bus }
}

// WithProductionRules overrides the rules stored in the replay.
func WithProductionRules(rules game.ProductionRules) Option {
	return func(o *indexOptions) { o.production = rules }
}

// Index gives random access to the turns of a replay. Every turn it has
// visited is kept as a snapshot, so seeking to a visited turn is a restore
// and seeking past the furthest turn simulates only the missing stretch.
// Cached snapshots are never evicted.
type Index struct {
	mu     sync.Mutex
	replay *Replay
	engine *game.Engine
	moves  map[int][]core.Move
	// cache[t] is the board at the end of turn t; turns 0..len-1 are present.
	cache  []game.Snapshot
	bus    *events.EventBus
	logger zerolog.Logger
}

// NewIndex builds the initial board and seeds the cache with turn 0.
func NewIndex(ctx context.Context, r *Replay, opts ...Option) (*Index, error) {
	o := indexOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bus == nil {
		o.bus = events.NewEventBus(o.logger)
	}

	if o.production == (game.ProductionRules{}) && r.Production != nil {
		o.production = *r.Production
	}

	board, err := r.InitialBoard()
	if err != nil {
		return nil, err
	}
	engine, err := game.NewEngineFromBoard(ctx, board, game.GameConfig{
		Players:    len(r.Players),
		Priority:   r.Priority,
		Production: o.production,
		GameID:     r.ID,
		Logger:     o.logger,
		EventBus:   o.bus,
	})
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", r.ID, err)
	}

	ix := &Index{
		replay: r,
		engine: engine,
		moves:  r.movesByTurn(),
		cache:  []game.Snapshot{engine.Snapshot()},
		bus:    o.bus,
		logger: o.logger.With().Str("component", "ReplayIndex").Str("replay_id", r.ID).Logger(),
	}
	ix.logger.Info().
		Int("width", r.Width).
		Int("height", r.Height).
		Int("players", len(r.Players)).
		Int("moves", len(r.Moves)).
		Msg("Replay loaded")
	return ix, nil
}

// Seek moves the index to turn and returns the board at that turn. The
// returned snapshot owns its board; the cached copy stays untouched.
func (ix *Index) Seek(ctx context.Context, turn int) (*game.Snapshot, error) {
	if turn < 0 {
		return nil, fmt.Errorf("seek %d: %w", turn, ErrNegativeTurn)
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	start := time.Now()
	if turn < len(ix.cache) {
		s := ix.cache[turn]
		if err := ix.engine.Restore(s); err != nil {
			return nil, err
		}
		ix.publish(turn, turn, true, 0)
		return detach(s), nil
	}

	from := len(ix.cache) - 1
	if ix.engine.Turn() != from {
		if err := ix.engine.Restore(ix.cache[from]); err != nil {
			return nil, err
		}
	}
	for ix.engine.Turn() < turn {
		current := ix.engine.Turn()
		if _, err := ix.engine.ProcessTurn(ctx, ix.moves[current]); err != nil {
			return nil, fmt.Errorf("seek %d: simulate turn %d: %w", turn, current+1, err)
		}
		ix.cache = append(ix.cache, ix.engine.Snapshot())
	}

	ix.logger.Debug().
		Int("target", turn).
		Int("from", from).
		Int("simulated", turn-from).
		Dur("duration", time.Since(start)).
		Msg("Replay seek simulated forward")
	ix.publish(turn, from, false, turn-from)
	return detach(ix.cache[turn]), nil
}

func detach(s game.Snapshot) *game.Snapshot {
	s.Board = s.Board.Clone()
	return &s
}

func (ix *Index) publish(target, from int, hit bool, simulated int) {
	ix.bus.Publish(events.NewReplaySeekEvent(ix.replay.ID, target, from, hit, simulated))
}

// Turn is the turn the live engine is currently at.
func (ix *Index) Turn() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.engine.Turn()
}

// Cached returns the number of cached turns, always at least one.
func (ix *Index) Cached() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.cache)
}

// Observe returns player's view of the current turn.
func (ix *Index) Observe(player int) *observation.Observation {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.engine.Observe(player)
}

// Board returns a copy of the current board.
func (ix *Index) Board() *core.Board {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.engine.Board().Clone()
}

// Replay returns the replay being indexed
func (ix *Index) Replay() *Replay { return ix.replay }
