package replay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchelldurbincs/genghis/internal/config"
)

// Store persists encoded replays by ID.
type Store interface {
	Save(ctx context.Context, r *Replay) error
	Load(ctx context.Context, id string) (*Replay, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// OpenStore returns the backend named by cfg.Store.
func OpenStore(ctx context.Context, cfg config.ReplayConfig) (Store, error) {
	switch cfg.Store {
	case "", "file":
		return NewFileStore(cfg.Dir), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL, cfg.RedisTTL)
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown replay store %q", cfg.Store)
	}
}

// FileStore keeps one <id>.gior.lz4 file per replay in a directory.
type FileStore struct {
	dir string
}

// NewFileStore stores replays under dir, creating it on first save
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+FileExtension)
}

func (s *FileStore) Save(ctx context.Context, r *Replay) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := SaveFile(s.dir, r)
	return err
}

func (s *FileStore) Load(ctx context.Context, id string) (*Replay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := LoadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	return r, err
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", id, ErrReplayNotFound)
	}
	return err
}

func (s *FileStore) Close() error { return nil }
