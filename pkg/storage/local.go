package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LocalStore keeps blobs on an afero filesystem, normally a BasePathFs over
// the OS filesystem and a MemMapFs in tests.
type LocalStore struct {
	fs  afero.Fs
	log *zap.Logger
}

func NewLocalStore(fs afero.Fs, log *zap.Logger) *LocalStore {
	return &LocalStore{
		fs:  fs,
		log: log.With(zap.String("storage", "local")),
	}
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(path.Dir(key), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}

	f, err := s.fs.Create(key)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", key, err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// don't leave half-written files behind
		_ = s.fs.Remove(key)
		return fmt.Errorf("write blob %s: %w", key, err)
	}

	s.log.Debug("Blob saved",
		zap.String("key", key),
		zap.Int64("bytes", written),
		zap.String("content_type", contentType))

	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open blob %s: %w", key, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	err = s.fs.Remove(key)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", key, ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}

	return nil
}
