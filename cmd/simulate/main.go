package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/genghis/internal/config"
	"github.com/mitchelldurbincs/genghis/internal/game"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/genghis/internal/game/mapgen"
	"github.com/mitchelldurbincs/genghis/internal/logging"
	"github.com/mitchelldurbincs/genghis/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	turns := flag.Int("turns", -1, "Turns to simulate (-1 to use config default)")
	seed := flag.Int64("seed", 0, "RNG seed (0 to use config, then current time)")
	activity := flag.Float64("activity", 0.8, "Chance that a player moves on a given turn")
	watch := flag.Bool("watch", false, "Reload the log level when the config file changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	logging.Setup(cfg.Log, nil)

	if *turns == -1 {
		*turns = cfg.Simulate.Turns
	}
	if *seed == 0 {
		*seed = cfg.Simulate.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *watch {
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Ignoring invalid config reload")
				return
			}
			zerolog.SetGlobalLevel(logging.ParseLevel(c.Log.Level))
			log.Info().Str("level", c.Log.Level).Msg("Config reloaded")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *turns, *seed, *activity); err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}
}

func run(ctx context.Context, cfg *config.Config, turns int, seed int64, activity float64) error {
	mapCfg, err := mapgen.FromConfig(cfg.Game.Players, cfg.Game.Map)
	if err != nil {
		return err
	}
	rules := game.ProductionRulesFromConfig(cfg.Game.Production)

	bus := events.NewEventBus(log.Logger)
	eventLogger := subscribers.NewLoggerSubscriber("simulate", log.Logger, zerolog.DebugLevel)
	eventLogger.SetEventFilter([]string{events.TypeGameStarted, events.TypeGameEnded, events.TypePlayerEliminated})
	bus.Subscribe(eventLogger)

	rng := rand.New(rand.NewSource(seed))
	engine, err := game.NewEngine(ctx, game.GameConfig{
		Players:    cfg.Game.Players,
		Map:        &mapCfg,
		Production: rules,
		Rng:        rng,
		Logger:     log.Logger,
		EventBus:   bus,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("game_id", engine.GameID()).
		Int64("seed", seed).
		Int("width", engine.Board().W).
		Int("height", engine.Board().H).
		Int("turns", turns).
		Msg("Starting simulation")

	var rec *replay.Recorder
	if cfg.Simulate.Record {
		r := replay.FromBoard(engine.GameID(), engine.Board(), engine.NumPlayers())
		r.Production = &rules
		rec = replay.NewRecorder(r)
	}

	start := time.Now()
	if err := play(ctx, engine, rng, turns, activity, rec); err != nil {
		return err
	}

	summary := log.Info().
		Int("turn", engine.Turn()).
		Bool("game_over", engine.IsGameOver()).
		Int("winner", engine.GetWinner()).
		Int("leader", engine.Leader()).
		Dur("elapsed", time.Since(start))
	for _, p := range engine.Players() {
		summary = summary.Dict(fmt.Sprintf("player_%d", p.ID), zerolog.Dict().
			Bool("alive", p.Alive).
			Int("army", p.ArmyCount).
			Int("land", p.Land))
	}
	summary.Msg("Simulation finished")

	if rec == nil {
		return nil
	}
	return saveReplay(cfg.Replay, rec.Replay())
}

// play advances engine with random moves until turns is reached, the game
// is over or ctx is cancelled. Cancellation is not an error. rec may be nil.
func play(ctx context.Context, engine *game.Engine, rng *rand.Rand, turns int, activity float64, rec *replay.Recorder) error {
	for engine.Turn() < turns && !engine.IsGameOver() {
		turn := engine.Turn()
		moves := game.GenerateRandomMoves(engine, rng, activity)
		if _, err := engine.ProcessTurn(ctx, moves); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn().Int("turn", turn).Msg("Simulation interrupted")
				return nil
			}
			return err
		}
		// only turns the engine actually played go into the replay
		if rec != nil {
			rec.Record(turn, moves)
		}
	}
	return nil
}

func saveReplay(cfg config.ReplayConfig, r *replay.Replay) error {
	// The run context may already be cancelled; saving gets its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := replay.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, r); err != nil {
		return err
	}
	log.Info().
		Str("replay_id", r.ID).
		Str("store", cfg.Store).
		Int("moves", len(r.Moves)).
		Msg("Replay saved")
	return nil
}
