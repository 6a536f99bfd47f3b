// Package memory keeps archived catalog payloads in process memory, for tests.
package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"baukatalog/internal/blob/core"
)

type payload struct {
	info core.Info
	data []byte
}

// Store implements core.Store on a mutex-guarded map.
type Store struct {
	mu       sync.RWMutex
	payloads map[string]payload
}

// New returns an empty in-memory payload store.
func New() *Store {
	return &Store{payloads: make(map[string]payload)}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Put(_ context.Context, key string, data []byte) (core.Info, error) {
	if key == "" {
		return core.Info{}, fmt.Errorf("empty payload key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.payloads[key]; taken {
		return core.Info{}, fmt.Errorf("put %s: %w", key, core.ErrKeyExists)
	}
	digest := sha256.Sum256(data)
	stored := payload{
		info: core.Info{
			Key:      key,
			Size:     int64(len(data)),
			Checksum: hex.EncodeToString(digest[:]),
			StoredAt: time.Now().UTC(),
		},
		data: append([]byte(nil), data...),
	}
	s.payloads[key] = stored
	return stored.info, nil
}

func (s *Store) Get(_ context.Context, key string) (core.Info, []byte, error) {
	s.mu.RLock()
	stored, ok := s.payloads[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, nil, fmt.Errorf("get %s: %w", key, core.ErrNotFound)
	}
	return stored.info, append([]byte(nil), stored.data...), nil
}

func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]core.Info, 0, len(s.payloads))
	for key, stored := range s.payloads {
		if prefix == "" || len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			infos = append(infos, stored.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
