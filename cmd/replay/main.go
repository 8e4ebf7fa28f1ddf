package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/genghis/internal/config"
	"github.com/mitchelldurbincs/genghis/internal/logging"
	"github.com/mitchelldurbincs/genghis/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	id := flag.String("id", "", "Replay ID to load from the configured store")
	file := flag.String("file", "", "Load a replay file directly instead of using the store")
	turnList := flag.String("turns", "0", "Comma separated turns to seek to, in order")
	list := flag.Bool("list", false, "List stored replays (sqlite store only)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	logging.Setup(cfg.Log, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *list {
		if err := listReplays(ctx, cfg.Replay); err != nil {
			log.Fatal().Err(err).Msg("Failed to list replays")
		}
		return
	}

	turns, err := parseTurns(*turnList)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -turns")
	}
	r, err := load(ctx, cfg.Replay, *id, *file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load replay")
	}
	if err := seek(ctx, r, turns); err != nil {
		log.Fatal().Err(err).Msg("Seek failed")
	}
}

func parseTurns(s string) ([]int, error) {
	var turns []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("turn %q: %w", part, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func load(ctx context.Context, cfg config.ReplayConfig, id, file string) (*replay.Replay, error) {
	if file != "" {
		return replay.LoadFile(file)
	}
	if id == "" {
		return nil, fmt.Errorf("one of -id or -file is required")
	}
	store, err := replay.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(ctx, id)
}

func seek(ctx context.Context, r *replay.Replay, turns []int) error {
	ix, err := replay.NewIndex(ctx, r, replay.WithLogger(log.Logger))
	if err != nil {
		return err
	}
	for _, turn := range turns {
		snap, err := ix.Seek(ctx, turn)
		if err != nil {
			return err
		}
		event := log.Info().
			Str("replay_id", r.ID).
			Int("turn", snap.Turn).
			Int("priority", snap.Priority).
			Str("fingerprint", snap.Fingerprint()).
			Int("cached", ix.Cached())
		for p := range r.Players {
			army, land := snap.Board.PlayerTotals(p)
			event = event.Str(fmt.Sprintf("player_%d", p), fmt.Sprintf("army=%d land=%d", army, land))
		}
		event.Msg("Seeked")
	}
	return nil
}

func listReplays(ctx context.Context, cfg config.ReplayConfig) error {
	store, err := replay.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sqlite, ok := store.(*replay.SQLiteStore)
	if !ok {
		return fmt.Errorf("listing requires the sqlite store, configured store is %q", cfg.Store)
	}
	summaries, err := sqlite.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		log.Info().
			Str("replay_id", s.ID).
			Int("width", s.Width).
			Int("height", s.Height).
			Int("turns", s.Turns).
			Msg("Stored replay")
	}
	return nil
}
