package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// headerSize is the length of the expiry prefix of every entry file: a
// big-endian Unix nanosecond deadline, zero for entries that never expire.
const headerSize = 8

// FileCache keeps one file per key under dir, sharded by the first two hex
// digits of the key digest. Rendered frames are stored as raw bytes after
// the expiry header.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	if len(raw) < headerSize {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if deadline := int64(binary.BigEndian.Uint64(raw)); deadline != 0 && c.now().UnixNano() > deadline {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[headerSize:], true, nil
}

// Set writes the entry to a temporary file and renames it into place, so
// concurrent readers never see a partial frame.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache shard: %w", err)
	}

	raw := make([]byte, headerSize+len(data))
	if ttl > 0 {
		binary.BigEndian.PutUint64(raw, uint64(c.now().Add(ttl).UnixNano()))
	}
	copy(raw[headerSize:], data)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry and returns how many were removed. Files that
// are not cache shards are left alone.
func (c *FileCache) Clear() (int, error) {
	shards, err := filepath.Glob(filepath.Join(c.dir, "[0-9a-f][0-9a-f]"))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, shard := range shards {
		entries, err := os.ReadDir(shard)
		if err != nil {
			return removed, err
		}
		if err := os.RemoveAll(shard); err != nil {
			return removed, err
		}
		removed += len(entries)
	}
	return removed, nil
}

// Stats walks the shards and reports the entry count and their total size,
// expiry headers included.
func (c *FileCache) Stats() (entries int, size int64, err error) {
	shards, err := filepath.Glob(filepath.Join(c.dir, "[0-9a-f][0-9a-f]"))
	if err != nil {
		return 0, 0, err
	}
	for _, shard := range shards {
		files, err := os.ReadDir(shard)
		if err != nil {
			return entries, size, err
		}
		for _, f := range files {
			info, err := f.Info()
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			entries++
			size += info.Size()
		}
	}
	return entries, size, nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	digest := Hash([]byte(key))
	return filepath.Join(c.dir, digest[:2], digest[2:])
}

var _ Cache = (*FileCache)(nil)
