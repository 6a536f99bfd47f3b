// Package core defines the storage contract for archived catalog payloads.
package core

import (
	"context"
	"errors"
	"time"
)

// Driver identifies a payload storage backend.
type Driver string

const (
	// DriverFilesystem stores payloads as files under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 stores payloads in an S3-compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps payloads in process memory, for tests.
	DriverMemory Driver = "memory"
)

// Info describes one archived payload. Checksum is the hex SHA-256 of the
// payload bytes; listings may omit it when computing it would mean reading
// every payload.
type Info struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size_bytes"`
	Checksum string    `json:"checksum,omitempty"`
	StoredAt time.Time `json:"stored_at"`
}

// Store persists immutable JSON payloads under unique keys. A payload is
// written once and never overwritten: a second Put on the same key fails
// with ErrKeyExists. Get returns the exact bytes that were stored.
type Store interface {
	Put(ctx context.Context, key string, payload []byte) (Info, error)
	Get(ctx context.Context, key string) (Info, []byte, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

var (
	// ErrKeyExists reports a Put on a key that already holds a payload.
	ErrKeyExists = errors.New("payload key already exists")
	// ErrNotFound reports a Get on a key with no payload.
	ErrNotFound = errors.New("payload not found")
)
