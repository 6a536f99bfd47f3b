package blob

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CatalogArchive keeps the raw bytes of every imported catalog payload so an
// ingestion can be audited or replayed. Keys are timestamped under the
// catalogs/ prefix and never overwritten.
type CatalogArchive struct {
	store Store
}

// NewCatalogArchive wraps a blob store as a catalog payload archive.
func NewCatalogArchive(store Store) *CatalogArchive {
	return &CatalogArchive{store: store}
}

// Archive stores the payload and returns its blob key.
func (a *CatalogArchive) Archive(ctx context.Context, name string, payload []byte) (string, error) {
	key := fmt.Sprintf("catalogs/%s-%s", time.Now().UTC().Format("20060102T150405Z"), sanitizeName(name))
	if _, err := a.store.Put(ctx, key, payload); err != nil {
		return "", fmt.Errorf("archive catalog: %w", err)
	}
	return key, nil
}

// List returns the stored catalog payloads, oldest first.
func (a *CatalogArchive) List(ctx context.Context) ([]Info, error) {
	return a.store.List(ctx, "catalogs/")
}

// Fetch returns the raw bytes of an archived catalog. Keys outside the
// catalogs/ prefix are treated as absent so callers cannot read arbitrary
// blobs through the archive.
func (a *CatalogArchive) Fetch(ctx context.Context, key string) ([]byte, error) {
	if !strings.HasPrefix(key, "catalogs/") {
		return nil, fmt.Errorf("fetch %s: %w", key, ErrNotFound)
	}
	_, payload, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func sanitizeName(name string) string {
	if name == "" {
		return "catalog.json"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	return name
}
