package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"content-share/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	// ErrNotExist is returned when a key has no blob behind it.
	ErrNotExist = errors.New("blob does not exist")
	// ErrInvalidKey is returned for keys that are empty or try to escape the store root.
	ErrInvalidKey = errors.New("invalid blob key")
)

// Store keeps uploaded files and avatars. Keys are slash separated relative
// paths such as "uploads/<uuid>-photo.png"; only keys are persisted in the DB.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// New builds the store selected by config.Driver.
func New(ctx context.Context, config utils.StorageConfig, log *zap.Logger) (Store, error) {
	switch config.Driver {
	case "", "local":
		log.Info("Using local blob storage", zap.String("root", config.LocalRoot))
		return NewLocalStore(afero.NewBasePathFs(afero.NewOsFs(), config.LocalRoot), log), nil
	case "minio":
		log.Info("Using MinIO blob storage",
			zap.String("endpoint", config.MinIO.Endpoint),
			zap.String("bucket", config.MinIO.Bucket))
		return NewMinioStore(ctx, config.MinIO, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
