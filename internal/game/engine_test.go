package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a deterministic RNG for tests
func newTestRNG() *rand.Rand {
	return testutil.NewTestRNG(12345)
}

func newBoardEngine(t *testing.T, board *core.Board, players int) (*Engine, *events.Collector) {
	t.Helper()
	e, err := NewEngineFromBoard(context.Background(), board, GameConfig{
		Players: players,
		GameID:  "test-game",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	collector := events.NewCollector("test")
	e.EventBus().Subscribe(collector)
	return e, collector
}

func step(t *testing.T, e *Engine, moves ...core.Move) *TurnResult {
	t.Helper()
	res, err := e.ProcessTurn(context.Background(), moves)
	require.NoError(t, err)
	return res
}

func TestNewEngine(t *testing.T) {
	width, height, numPlayers := 8, 8, 2

	engine, err := NewEngine(context.Background(), GameConfig{
		Width:   width,
		Height:  height,
		Players: numPlayers,
		Rng:     newTestRNG(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	require.NotNil(t, engine.Board(), "Board should not be nil")
	assert.Equal(t, width, engine.Board().W, "Board width mismatch")
	assert.Equal(t, height, engine.Board().H, "Board height mismatch")
	assert.Equal(t, 0, engine.Turn(), "Initial turn should be 0")
	assert.Equal(t, 0, engine.Priority())
	assert.False(t, engine.IsGameOver(), "Game should not be over at start")

	_, err = uuid.Parse(engine.GameID())
	assert.NoError(t, err, "game IDs default to UUIDs")

	players := engine.Players()
	require.Len(t, players, numPlayers, "Incorrect number of players")
	for i, player := range players {
		assert.True(t, player.Alive, "Player %d should be alive", i)
		require.NotEqual(t, -1, player.GeneralIdx, "Player %d should have a general assigned", i)
		generalTile := engine.Board().T[player.GeneralIdx]
		assert.Equal(t, i, generalTile.Owner, "General tile owner mismatch for player %d", i)
		assert.True(t, generalTile.IsGeneral(), "General tile type mismatch for player %d", i)
		assert.Equal(t, 1, player.ArmyCount)
		assert.Equal(t, 1, player.Land)
	}
}

func TestNewEngine_Errors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		cfg     GameConfig
		wantErr error
	}{
		{
			name:    "no players",
			ctx:     context.Background(),
			cfg:     GameConfig{Width: 5, Height: 5},
			wantErr: core.ErrNoPlayers,
		},
		{
			name:    "cancelled context",
			ctx:     cancelled,
			cfg:     GameConfig{Width: 5, Height: 5, Players: 2},
			wantErr: context.Canceled,
		},
		{
			name:    "priority out of range",
			ctx:     context.Background(),
			cfg:     GameConfig{Width: 5, Height: 5, Players: 2, Priority: 2},
			wantErr: core.ErrInvalidPlayer,
		},
		{
			name:    "map too small",
			ctx:     context.Background(),
			cfg:     GameConfig{Width: 2, Height: 2, Players: 2},
			wantErr: core.ErrGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = zerolog.Nop()
			tt.cfg.Rng = newTestRNG()
			_, err := NewEngine(tt.ctx, tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid production rules", func(t *testing.T) {
		_, err := NewEngineFromBoard(context.Background(), testutil.CreateDuelBoard(), GameConfig{
			Players:    2,
			Production: ProductionRules{GeneralCityInterval: 0, LandInterval: 50},
			Logger:     zerolog.Nop(),
		})
		assert.Error(t, err)
	})

	t.Run("board owner out of range", func(t *testing.T) {
		_, err := NewEngineFromBoard(context.Background(), testutil.CreateDuelBoard(), GameConfig{
			Players: 1,
			Logger:  zerolog.Nop(),
		})
		assert.ErrorIs(t, err, core.ErrInvalidPlayer)
	})
}

func TestNewEngineFromBoard_InfersPlayers(t *testing.T) {
	e, err := NewEngineFromBoard(context.Background(), testutil.CreateSimpleTestSetup(), GameConfig{Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, 2, e.NumPlayers())
}

func TestProcessTurn_DuelScenario(t *testing.T) {
	e, _ := newBoardEngine(t, testutil.CreateDuelBoard(), 2)

	step(t, e)
	assert.Equal(t, 1, e.Board().T[0].Army, "no growth on odd turns")
	step(t, e)
	assert.Equal(t, 2, e.Turn())
	assert.Equal(t, 2, e.Board().T[0].Army)
	assert.Equal(t, 2, e.Board().T[1].Army)

	res := step(t, e, core.NewMove(0, 0, 0, 1, 0, false))
	require.Len(t, res.Applied, 1)
	assert.Equal(t, core.Repelled, res.Applied[0].Kind)
	assert.Equal(t, core.Tile{Owner: 1, Army: 1, Type: core.General}, e.Board().T[1])
	assert.Equal(t, core.Tile{Owner: 0, Army: 1, Type: core.General}, e.Board().T[0])
}

func TestProcessTurn_SplitIntoNeutral(t *testing.T) {
	board := testutil.CreateTestBoardWithTiles(3, 1, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 5},
		{X: 2, Y: 0}: {Type: core.General, Owner: 1, Army: 1},
	})
	e, _ := newBoardEngine(t, board, 2)

	step(t, e, core.NewMove(0, 0, 0, 1, 0, true))
	assert.Equal(t, core.Tile{Owner: 0, Army: 2}, e.Board().T[1])
	assert.Equal(t, 3, e.Board().T[0].Army)
}

func TestProcessTurn_GrowthAndDecay(t *testing.T) {
	board := testutil.CreateTestBoardWithTiles(4, 2, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 1},
		{X: 1, Y: 0}: {Type: core.City, Owner: 0, Army: 10},
		{X: 2, Y: 0}: {Type: core.Desert, Owner: 0, Army: 3},
		{X: 3, Y: 0}: {Type: core.Plain, Owner: 0, Army: 3},
		{X: 0, Y: 1}: {Type: core.Swamp, Owner: 0, Army: 2},
		{X: 1, Y: 1}: {Type: core.City, Owner: core.NeutralID, Army: 40},
		{X: 3, Y: 1}: {Type: core.General, Owner: 1, Army: 1},
	})
	e, collector := newBoardEngine(t, board, 2)
	swamp := board.Idx(0, 1)

	res := step(t, e)
	assert.Equal(t, 1, e.Board().T[swamp].Army)
	assert.Equal(t, 0, e.Board().T[swamp].Owner)
	assert.Equal(t, 1, res.Production.SwampsDecayed)

	res = step(t, e)
	assert.Equal(t, 0, e.Board().T[swamp].Army)
	assert.Equal(t, core.NeutralID, e.Board().T[swamp].Owner, "a drained swamp reverts to neutral")
	assert.Equal(t, 1, res.Production.SwampsLost)
	assert.Equal(t, 2, e.Board().T[board.Idx(0, 0)].Army)
	assert.Equal(t, 11, e.Board().T[board.Idx(1, 0)].Army)
	assert.Equal(t, 40, e.Board().T[board.Idx(1, 1)].Army, "neutral cities do not grow")

	for e.Turn() < 50 {
		step(t, e)
	}
	assert.Equal(t, 1+25+1, e.Board().T[board.Idx(0, 0)].Army, "25 structure ticks plus one land tick")
	assert.Equal(t, 10+25+1, e.Board().T[board.Idx(1, 0)].Army)
	assert.Equal(t, 3, e.Board().T[board.Idx(2, 0)].Army, "deserts never grow")
	assert.Equal(t, 4, e.Board().T[board.Idx(3, 0)].Army)
	assert.Equal(t, 0, e.Board().T[swamp].Army, "neutral swamps are left alone")
	assert.Equal(t, 50, collector.Count(events.TypeTurnEnded))
}

func TestProcessTurn_PriorityRotates(t *testing.T) {
	board := testutil.CreateTestBoardWithTiles(3, 1, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 1},
		{X: 1, Y: 0}: {Type: core.General, Owner: 1, Army: 1},
		{X: 2, Y: 0}: {Type: core.General, Owner: 2, Army: 1},
	})
	e, _ := newBoardEngine(t, board, 3)

	var seen []int
	for i := 0; i < 4; i++ {
		seen = append(seen, e.Priority())
		assert.True(t, e.Observe(e.Priority()).Priority)
		step(t, e)
	}
	assert.Equal(t, []int{0, 1, 2, 0}, seen)
}

func TestProcessTurn_RejectedMovesReported(t *testing.T) {
	e, collector := newBoardEngine(t, testutil.CreateSimpleTestSetup(), 2)

	res := step(t, e,
		core.NewMove(0, 1, 1, 2, 1, false), // insufficient army
		core.NewMove(1, 1, 1, 1, 2, false), // not owned
	)
	require.Len(t, res.Rejected, 2)
	assert.ErrorIs(t, res.Rejected[0].Err, core.ErrInsufficientArmy)
	assert.ErrorIs(t, res.Rejected[1].Err, core.ErrNotOwned)
	assert.Equal(t, 1, res.Turn)
	assert.Equal(t, 2, collector.Count(events.TypeMoveRejected))
}

func TestProcessTurn_CancelledContextLeavesStateUntouched(t *testing.T) {
	e, _ := newBoardEngine(t, testutil.CreateSimpleTestSetup(), 2)
	step(t, e)
	before := e.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := e.ProcessTurn(ctx, []core.Move{core.NewMove(0, 1, 1, 1, 2, false)})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	var gsErr *core.GameStateError
	require.True(t, errors.As(err, &gsErr))
	assert.Equal(t, 1, gsErr.Turn)

	assert.Equal(t, before.Turn, e.Turn())
	assert.Equal(t, before.Priority, e.Priority())
	assert.Equal(t, before.Fingerprint(), e.Board().FingerprintHex())
}

func TestProcessTurn_GeneralCaptureEndsGame(t *testing.T) {
	board := testutil.CreateTestBoardWithTiles(3, 1, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 10},
		{X: 1, Y: 0}: {Type: core.General, Owner: 1, Army: 2},
		{X: 2, Y: 0}: {Type: core.Plain, Owner: 1, Army: 5},
	})
	e, collector := newBoardEngine(t, board, 2)

	res := step(t, e, core.NewMove(0, 0, 0, 1, 0, false))
	assert.Equal(t, []int{1}, res.Eliminated)
	require.Len(t, res.Captures, 1)
	assert.Equal(t, core.City, e.Board().T[1].Type)
	assert.Equal(t, core.Tile{Owner: 0, Army: 3}, e.Board().T[2])

	assert.True(t, e.IsGameOver())
	assert.Equal(t, 0, e.GetWinner())
	assert.False(t, e.Players()[1].Alive)
	assert.Equal(t, 1, collector.Count(events.TypeGameEnded))
	assert.Equal(t, 1, collector.Count(events.TypePlayerEliminated), "capture publishes exactly one elimination")

	// The terminal condition is reported, not enforced.
	step(t, e)
	assert.Equal(t, 2, e.Turn())
	assert.Equal(t, 1, collector.Count(events.TypeGameEnded), "GameEnded is published once")
}

func TestProcessTurn_GeneralTiedToNeutral(t *testing.T) {
	board := testutil.CreateTestBoardWithTiles(3, 1, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 4},
		{X: 1, Y: 0}: {Type: core.General, Owner: 1, Army: 3},
		{X: 2, Y: 0}: {Type: core.General, Owner: 2, Army: 1},
	})
	e, collector := newBoardEngine(t, board, 3)

	res := step(t, e, core.NewMove(0, 0, 0, 1, 0, false))
	assert.Equal(t, core.Tile{Owner: core.NeutralID, Army: 0, Type: core.General}, e.Board().T[1])
	assert.Equal(t, []int{1}, res.Eliminated)
	assert.Empty(t, res.Captures)
	assert.False(t, e.Players()[1].Alive)

	eliminations := collector.Events()
	var got []*events.PlayerEliminatedEvent
	for _, ev := range eliminations {
		if pe, ok := ev.(*events.PlayerEliminatedEvent); ok {
			got = append(got, pe)
		}
	}
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].PlayerID)
	assert.Equal(t, core.NeutralID, got[0].EliminatedBy)
	assert.Equal(t, 0, got[0].TilesTransferred)
}

func TestProcessTurn_Deterministic(t *testing.T) {
	run := func() []string {
		e, err := NewEngine(context.Background(), GameConfig{
			Width:   12,
			Height:  12,
			Players: 3,
			Rng:     rand.New(rand.NewSource(7)),
			GameID:  "det",
			Logger:  zerolog.Nop(),
		})
		require.NoError(t, err)

		moveRng := rand.New(rand.NewSource(99))
		var prints []string
		for i := 0; i < 120; i++ {
			step(t, e, GenerateRandomMoves(e, moveRng, 0.9)...)
			prints = append(prints, e.Board().FingerprintHex())
		}
		return prints
	}
	assert.Equal(t, run(), run())
}

func TestSnapshotRestore(t *testing.T) {
	e, _ := newBoardEngine(t, testutil.CreateSimpleTestSetup(), 2)
	start := e.Snapshot()

	for i := 0; i < 6; i++ {
		step(t, e)
	}
	mid := e.Snapshot()
	assert.Equal(t, 6, mid.Turn)
	assert.NotEqual(t, start.Fingerprint(), mid.Fingerprint())

	require.NoError(t, e.Restore(start))
	assert.Equal(t, 0, e.Turn())
	assert.True(t, e.Board().Equal(start.Board))
	assert.Equal(t, 1, e.Players()[0].ArmyCount)

	// Mutating the live board must not leak into the snapshot.
	step(t, e)
	step(t, e)
	assert.Equal(t, 2, e.Board().T[e.Board().Idx(1, 1)].Army)
	assert.Equal(t, 1, start.Board.T[start.Board.Idx(1, 1)].Army)

	require.NoError(t, e.Restore(mid))
	for i := 0; i < 6; i++ {
		step(t, e)
	}
	require.NoError(t, e.Restore(mid))
	assert.Equal(t, mid.Fingerprint(), e.Board().FingerprintHex())

	assert.Error(t, e.Restore(Snapshot{Board: core.NewBoard(2, 2)}))
}

func TestLegalMovesAndMask(t *testing.T) {
	e, _ := newBoardEngine(t, testutil.CreateSimpleTestSetup(), 2)
	assert.Empty(t, e.LegalMoves(0), "a 1-army general cannot move")

	step(t, e)
	step(t, e)
	moves := e.LegalMoves(0)
	assert.Len(t, moves, 3, "the mountain at (2,1) blocks one direction")

	mask := e.GetLegalActionMask(0)
	assert.Len(t, mask, 5*5*4)
	assert.Len(t, e.GetLegalActionMask(7), 5*5*4)
}

func TestObserveAll(t *testing.T) {
	e, _ := newBoardEngine(t, testutil.CreateSimpleTestSetup(), 2)
	all := e.ObserveAll()
	require.Len(t, all, 2)
	assert.True(t, all[0].Priority)
	assert.False(t, all[1].Priority)
	assert.Equal(t, e.Observe(1), all[1])
}

func TestGameStateClone(t *testing.T) {
	e, _ := newBoardEngine(t, testutil.CreateSimpleTestSetup(), 2)
	gs := e.GameState()
	gs.Board.T[0].Army = 99
	gs.Players[0].OwnedTiles[0] = -5

	assert.Equal(t, 0, e.Board().T[0].Army)
	assert.NotEqual(t, -5, e.Players()[0].OwnedTiles[0])
}

func BenchmarkProcessTurn(b *testing.B) {
	e, err := NewEngine(context.Background(), GameConfig{
		Width:   20,
		Height:  20,
		Players: 4,
		Rng:     rand.New(rand.NewSource(1)),
		Logger:  zerolog.Nop(),
	})
	require.NoError(b, err)
	moveRng := rand.New(rand.NewSource(2))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		moves := GenerateRandomMoves(e, moveRng, 1)
		if _, err := e.ProcessTurn(context.Background(), moves); err != nil {
			b.Fatal(err)
		}
	}
}

func TestLeader(t *testing.T) {
	board := testutil.CreateTestBoardWithTiles(3, 1, map[core.Coordinate]core.Tile{
		{X: 0, Y: 0}: {Type: core.General, Owner: 0, Army: 2},
		{X: 2, Y: 0}: {Type: core.General, Owner: 1, Army: 5},
	})
	e, _ := newBoardEngine(t, board, 2)
	assert.Equal(t, 1, e.Leader())

	step(t, e, core.NewMove(0, 0, 0, 1, 0, false))
	assert.Equal(t, 1, e.Leader(), "land does not outweigh a larger army")
	assert.Equal(t, -1, e.GetWinner())
}
