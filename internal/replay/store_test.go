package replay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mitchelldurbincs/genghis/internal/config"
	"github.com/mitchelldurbincs/genghis/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every Store backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	r := FromBoard("store-1", testutil.CreateSimpleTestSetup(), 2, "a", "b")

	_, err := s.Load(ctx, r.ID)
	assert.ErrorIs(t, err, ErrReplayNotFound)

	require.NoError(t, s.Save(ctx, r))
	got, err := s.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	// saving again replaces the stored copy
	r.Players[0].Username = "renamed"
	require.NoError(t, s.Save(ctx, r))
	got, err = s.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Players[0].Username)

	require.NoError(t, s.Delete(ctx, r.ID))
	assert.ErrorIs(t, s.Delete(ctx, r.ID), ErrReplayNotFound)
	_, err = s.Load(ctx, r.ID)
	assert.ErrorIs(t, err, ErrReplayNotFound)
}

func TestFileStore(t *testing.T) {
	s := NewFileStore(t.TempDir())
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore_Cancelled(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, FromBoard("x", testutil.CreateSimpleTestSetup(), 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "replays.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_List(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "replays.db"))
	require.NoError(t, err)
	defer s.Close()

	recorded, _ := recordGame(t, 2, 12)
	require.NoError(t, s.Save(ctx, recorded))
	require.NoError(t, s.Save(ctx, FromBoard("a-first", testutil.CreateSimpleTestSetup(), 2)))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, Summary{ID: "a-first", Width: 5, Height: 5, Turns: 0}, list[0])
	assert.Equal(t, "recorded", list[1].ID)
	assert.Equal(t, recorded.Turns(), list[1].Turns)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenStore(ctx, config.ReplayConfig{Store: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = OpenStore(ctx, config.ReplayConfig{Store: "sqlite", SQLitePath: filepath.Join(dir, "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = OpenStore(ctx, config.ReplayConfig{Store: "tape"})
	assert.Error(t, err)
}
