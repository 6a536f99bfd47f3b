// Package memory provides an in-memory implementation of the regulation
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"

	"baukatalog/pkg/katalog"
)

// Compile-time contract assertion.
var _ katalog.Store = (*Store)(nil)

// Store keeps records in insertion order behind a mutex. Reads return
// shallow copies of the record slice; documents are shared, callers treat
// them as read-only.
type Store struct {
	mu      sync.RWMutex
	records []katalog.Record
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// PutRecords appends a batch of rows.
func (s *Store) PutRecords(_ context.Context, records []katalog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// GetByFullNumber returns the first row with the given full number.
func (s *Store) GetByFullNumber(_ context.Context, fullNumber string) (katalog.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.FullNumber == fullNumber {
			return rec, true, nil
		}
	}
	return katalog.Record{}, false, nil
}

// List returns all matching rows ordered by full number, insertion order
// breaking ties.
func (s *Store) List(_ context.Context, q katalog.RecordQuery) ([]katalog.Record, error) {
	s.mu.RLock()
	matched := s.match(q)
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].FullNumber < matched[j].FullNumber
	})
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of matching rows, ignoring pagination.
func (s *Store) Count(_ context.Context, q katalog.RecordQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.match(q)), nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) match(q katalog.RecordQuery) []katalog.Record {
	var out []katalog.Record
	for _, rec := range s.records {
		if q.Type != katalog.EntityUnknown && rec.Type != q.Type {
			continue
		}
		if len(q.LGNumbers) > 0 && !containsString(q.LGNumbers, rec.LG) {
			continue
		}
		if q.ULG != "" && rec.ULG != q.ULG {
			continue
		}
		if q.Grundtext != "" && rec.Grundtext != q.Grundtext {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
