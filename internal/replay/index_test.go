package replay

import (
	"context"
	"testing"

	"github.com/mitchelldurbincs/genghis/internal/game"
	"github.com/mitchelldurbincs/genghis/internal/game/core"
	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/mitchelldurbincs/genghis/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T, r *Replay) (*Index, *events.Collector) {
	t.Helper()
	bus := events.NewEventBus(zerolog.Nop())
	collector := events.NewCollector("seek", events.TypeReplaySeek)
	bus.Subscribe(collector)
	ix, err := NewIndex(context.Background(), r, WithEventBus(bus), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return ix, collector
}

func TestNewIndex(t *testing.T) {
	r, prints := recordGame(t, 11, 5)
	ix, _ := newIndex(t, r)

	assert.Equal(t, 0, ix.Turn())
	assert.Equal(t, 1, ix.Cached())
	assert.Equal(t, prints[0], ix.Board().FingerprintHex())
	assert.Same(t, r, ix.Replay())

	bad := FromBoard("bad", testutil.CreateSimpleTestSetup(), 2)
	bad.Width = 0
	_, err := NewIndex(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidReplay)
}

func TestIndexSeekMatchesLiveGame(t *testing.T) {
	const turns = 80
	r, prints := recordGame(t, 5, turns)
	ix, _ := newIndex(t, r)

	for _, turn := range []int{0, 1, 7, 50, turns, 3, 49, turns} {
		snap, err := ix.Seek(context.Background(), turn)
		require.NoError(t, err)
		assert.Equal(t, turn, snap.Turn)
		assert.Equal(t, turn, ix.Turn())
		assert.Equal(t, prints[turn], snap.Fingerprint(), "turn %d", turn)
		assert.Equal(t, prints[turn], ix.Board().FingerprintHex(), "live board at turn %d", turn)
	}
	assert.Equal(t, turns+1, ix.Cached())
}

func TestIndexSeekPastLastMove(t *testing.T) {
	r, prints := recordGame(t, 9, 10)
	ix, _ := newIndex(t, r)

	snap, err := ix.Seek(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, snap.Turn)
	assert.Equal(t, 31, ix.Cached())

	back, err := ix.Seek(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, prints[10], back.Fingerprint())
}

func TestIndexCacheHitIsIdentical(t *testing.T) {
	r, _ := recordGame(t, 21, 40)
	ix, collector := newIndex(t, r)
	ctx := context.Background()

	miss, err := ix.Seek(ctx, 25)
	require.NoError(t, err)
	hit, err := ix.Seek(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, miss.Fingerprint(), hit.Fingerprint())
	assert.True(t, miss.Board.Equal(hit.Board))

	// forward, backward, forward again
	_, err = ix.Seek(ctx, 40)
	require.NoError(t, err)
	_, err = ix.Seek(ctx, 10)
	require.NoError(t, err)
	again, err := ix.Seek(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, miss.Fingerprint(), again.Fingerprint())

	seeks := collector.Events()
	require.Len(t, seeks, 5)
	first := seeks[0].(*events.ReplaySeekEvent)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 0, first.FromTurn)
	assert.Equal(t, 25, first.SimulatedTurns)
	assert.True(t, seeks[1].(*events.ReplaySeekEvent).CacheHit)
	third := seeks[2].(*events.ReplaySeekEvent)
	assert.False(t, third.CacheHit)
	assert.Equal(t, 25, third.FromTurn)
	assert.Equal(t, 15, third.SimulatedTurns)
	assert.True(t, seeks[3].(*events.ReplaySeekEvent).CacheHit)
	assert.True(t, seeks[4].(*events.ReplaySeekEvent).CacheHit)
}

func TestIndexSeekResultDoesNotAliasCache(t *testing.T) {
	r, prints := recordGame(t, 8, 12)
	ix, _ := newIndex(t, r)
	ctx := context.Background()

	snap, err := ix.Seek(ctx, 6)
	require.NoError(t, err)
	for i := range snap.Board.T {
		snap.Board.T[i].Army += 100
	}

	again, err := ix.Seek(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, prints[6], again.Fingerprint())
	assert.Equal(t, prints[6], ix.Board().FingerprintHex())
}

func TestIndexSeekAfterBackwardSimulatesFromFurthestTurn(t *testing.T) {
	r, prints := recordGame(t, 4, 30)
	ix, _ := newIndex(t, r)
	ctx := context.Background()

	_, err := ix.Seek(ctx, 20)
	require.NoError(t, err)
	_, err = ix.Seek(ctx, 5)
	require.NoError(t, err)

	snap, err := ix.Seek(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, prints[30], snap.Fingerprint())
	assert.Equal(t, 31, ix.Cached())
}

func TestIndexSeekNegativeTurn(t *testing.T) {
	r, _ := recordGame(t, 1, 3)
	ix, collector := newIndex(t, r)

	_, err := ix.Seek(context.Background(), -1)
	assert.ErrorIs(t, err, ErrNegativeTurn)
	assert.Equal(t, 0, ix.Turn())
	assert.Equal(t, 0, collector.Count(events.TypeReplaySeek))
}

func TestIndexSeekCancelled(t *testing.T) {
	r, _ := recordGame(t, 1, 10)
	ix, _ := newIndex(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ix.Seek(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, ix.Cached())

	snap, err := ix.Seek(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Turn)
}

func TestIndexObserve(t *testing.T) {
	r := FromBoard("obs", testutil.CreateSimpleTestSetup(), 2)
	rec := NewRecorder(r)
	rec.Record(2, []core.Move{core.NewMove(0, 1, 1, 1, 2, false)})
	ix, _ := newIndex(t, r)

	_, err := ix.Seek(context.Background(), 3)
	require.NoError(t, err)

	obs := ix.Observe(0)
	assert.Equal(t, 3, obs.Turn)
	// general grew to 2 on turn 2, then moved one army down; it grows again on turn 4
	assert.Equal(t, 1, obs.Armies[r.Players[0].General])
	assert.Equal(t, 0, obs.Owners[5*2+1])
	assert.Equal(t, 1, obs.Armies[5*2+1])
	assert.Equal(t, 2, obs.OwnedLand(0))
	assert.False(t, obs.Visible[5*4+4], "far corner is fogged")
}

func TestIndexProductionRules(t *testing.T) {
	r := FromBoard("rules", testutil.CreateSimpleTestSetup(), 2)
	r.Production = &game.ProductionRules{GeneralCityInterval: 1, LandInterval: 50, SwampDecay: 1}
	general := r.Players[0].General

	ix, _ := newIndex(t, r)
	_, err := ix.Seek(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 4, ix.Board().T[general].Army, "stored rules grow every turn")

	ix, err = NewIndex(context.Background(), r, WithProductionRules(game.DefaultProductionRules()))
	require.NoError(t, err)
	_, err = ix.Seek(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Board().T[general].Army, "option overrides stored rules")
}
