// Package storage keeps uploaded profile images and research papers. Stored
// objects are named by a fresh uuid plus the validated extension, never by the
// name the client sent.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/server/config"
	"github.com/google/uuid"
)

// AllowList is the set of lower-case extensions, dot included, a caller accepts.
type AllowList []string

var (
	ImageExtensions = AllowList{".jpg", ".jpeg"}
	PDFExtensions   = AllowList{".pdf"}
)

// Store saves a byte stream and returns the reference to persist with the row.
//
// Save fails with common.ErrUnsupportedExtension before reading r when the
// declared name's extension is not allowed, and with common.ErrWriteFailure
// when the backend rejects the write.
type Store interface {
	Save(ctx context.Context, r io.Reader, declaredName string, allowed AllowList) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Extension returns the lower-cased extension of name if allowed lists it.
func (a AllowList) Extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || !slices.Contains(a, ext) {
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedExtension, filepath.Ext(name))
	}
	return ext, nil
}

func newReference(ext string) string {
	return uuid.NewString() + ext
}

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Prefix:       "uploads",
		})
	case config.StorageLocal, "":
		return NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
