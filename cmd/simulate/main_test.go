package main

import (
	"context"
	"testing"

	"github.com/mitchelldurbincs/genghis/internal/game"
	"github.com/mitchelldurbincs/genghis/internal/replay"
	"github.com/mitchelldurbincs/genghis/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordedEngine(t *testing.T) (*game.Engine, *replay.Recorder) {
	t.Helper()
	e, err := game.NewEngine(context.Background(), game.GameConfig{
		Width:   8,
		Height:  8,
		Players: 2,
		Rng:     testutil.NewTestRNG(7),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return e, replay.NewRecorder(replay.FromBoard(e.GameID(), e.Board(), 2))
}

func TestPlayRecordsPlayedTurns(t *testing.T) {
	e, rec := newRecordedEngine(t)

	require.NoError(t, play(context.Background(), e, testutil.NewTestRNG(1), 10, 1.0, rec))
	assert.Equal(t, 10, e.Turn())
	assert.NotEmpty(t, rec.Replay().Moves)
	assert.LessOrEqual(t, rec.Replay().Turns(), e.Turn())
}

func TestPlayCancelledRecordsNothing(t *testing.T) {
	e, rec := newRecordedEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, play(ctx, e, testutil.NewTestRNG(1), 30, 1.0, rec))
	assert.Equal(t, 0, e.Turn())
	assert.Empty(t, rec.Replay().Moves, "a turn the engine refused must not be recorded")
	assert.Equal(t, 0, rec.Replay().Turns())
}
