package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/filex"
)

// LocalStore writes objects into a single directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs}, nil
}

// Dir is the absolute directory objects are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, r io.Reader, declaredName string, allowed AllowList) (string, error) {
	ext, err := allowed.Extension(declaredName)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := newReference(ext)
	if _, err := filex.WriteFile(s.dir, ref, r); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrWriteFailure, err)
	}
	return ref, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	// refs are bare file names; anything else never came from Save
	if ref != filepath.Base(ref) {
		return fmt.Errorf("invalid reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.dir, ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
