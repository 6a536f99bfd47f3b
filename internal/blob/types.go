// Package blob is the entry point for archived catalog payload storage. It
// re-exports the storage contract and selects a backend driver; callers
// outside this tree never touch the driver packages directly.
package blob

import (
	"baukatalog/internal/blob/core"
)

type (
	// Driver identifies a payload storage backend.
	Driver = core.Driver
	// Info describes one archived payload.
	Info = core.Info
	// Store persists immutable JSON payloads under unique keys.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

var (
	// ErrKeyExists reports a write to a key that already holds a payload.
	ErrKeyExists = core.ErrKeyExists
	// ErrNotFound reports a read of a key with no payload.
	ErrNotFound = core.ErrNotFound
)
