// Package fs stores archived catalog payloads as files under a root directory.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"baukatalog/internal/blob/core"
)

// Store writes each payload to root/<key>. Keys may contain slashes; the
// directory tree is created on demand. Files open with O_EXCL so a key can
// never be overwritten.
type Store struct {
	root string
}

// New returns a store rooted at the given directory, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create payload root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

func (s *Store) Put(_ context.Context, key string, payload []byte) (core.Info, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return core.Info{}, err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return core.Info{}, fmt.Errorf("put %s: %w", key, core.ErrKeyExists)
	}
	if err != nil {
		return core.Info{}, err
	}
	if _, err := file.Write(payload); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return core.Info{}, err
	}
	if err := file.Close(); err != nil {
		return core.Info{}, err
	}
	return s.describe(key, path, payload)
}

func (s *Store) Get(_ context.Context, key string) (core.Info, []byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Info{}, nil, fmt.Errorf("get %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, nil, err
	}
	info, err := s.describe(key, path, payload)
	return info, payload, err
}

// List stats files only; Checksum stays empty because filling it would read
// every payload back.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		stat, err := entry.Info()
		if err != nil {
			return err
		}
		infos = append(infos, core.Info{Key: key, Size: stat.Size(), StoredAt: stat.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *Store) describe(key, path string, payload []byte) (core.Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return core.Info{}, err
	}
	digest := sha256.Sum256(payload)
	return core.Info{
		Key:      key,
		Size:     int64(len(payload)),
		Checksum: hex.EncodeToString(digest[:]),
		StoredAt: stat.ModTime().UTC(),
	}, nil
}

// pathFor maps a key to a file path, rejecting anything that could escape
// the root.
func (s *Store) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("unusable payload key %q", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("unusable payload key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
