package blob

import (
	"context"
	"fmt"
	"os"

	"baukatalog/internal/infra/blob/fs"
	"baukatalog/internal/infra/blob/memory"
	"baukatalog/internal/infra/blob/s3"
)

// Open selects a blob.Store implementation using environment variables.
//
//	KATALOG_BLOB_DRIVER: fs|s3|memory (default fs)
//	KATALOG_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in the s3 driver package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("KATALOG_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("KATALOG_BLOB_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed Store rooted at the provided
// path. Returns the interface so call sites stay driver-agnostic.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memory.New() }
