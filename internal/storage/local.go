package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forgo/folio/internal/model"
)

// LocalStore keeps objects under a directory on disk
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory if needed. baseURL is the public
// prefix the directory is served under, e.g. "/uploads".
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Kind implements Store
func (s *LocalStore) Kind() model.StorageKind { return model.StorageLocal }

// Root returns the directory objects are written to
func (s *LocalStore) Root() string { return s.root }

// Put implements Store
func (s *LocalStore) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	if !validKey(key) {
		return Object{}, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Object{}, fmt.Errorf("create dir: %w", err)
	}

	tmp := dest + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return Object{}, fmt.Errorf("write object: %w", err)
	}

	return Object{Storage: model.StorageLocal, Key: key, URL: s.baseURL + "/" + key}, nil
}

// Delete implements Store. Missing objects are not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Walk calls fn for every stored object with its key and modification time.
// Partially written ".part" files are reported too.
func (s *LocalStore) Walk(ctx context.Context, fn func(key string, modTime time.Time) error) error {
	return filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info.ModTime())
	})
}
