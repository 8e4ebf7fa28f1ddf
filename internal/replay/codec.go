package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

// FileExtension is appended to the replay ID by SaveFile and FileStore.
const FileExtension = ".gior.lz4"

// Encode writes r as an LZ4 framed JSON document.
func Encode(w io.Writer, r *Replay) error {
	zw := lz4.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(r); err != nil {
		zw.Close()
		return fmt.Errorf("encode replay %s: %w", r.ID, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush replay %s: %w", r.ID, err)
	}
	return nil
}

// Decode reads and validates a replay written by Encode.
func Decode(rd io.Reader) (*Replay, error) {
	var r Replay
	if err := json.NewDecoder(lz4.NewReader(rd)).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReplay, err)
	}
	if r.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidReplay, r.Version)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func marshal(r *Replay) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshal(data []byte) (*Replay, error) {
	return Decode(bytes.NewReader(data))
}

// SaveFile writes r into dir as <id>.gior.lz4 and returns the path.
func SaveFile(dir string, r *Replay) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create replay dir: %w", err)
	}
	path := filepath.Join(dir, r.ID+FileExtension)
	data, err := marshal(r)
	if err != nil {
		return "", err
	}
	// Write then rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write replay: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write replay: %w", err)
	}
	return path, nil
}

// LoadFile reads a replay written by SaveFile
func LoadFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
