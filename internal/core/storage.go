package core

import (
	"fmt"
	"os"

	"baukatalog/internal/infra/persistence/memory"
	"baukatalog/internal/infra/persistence/postgres"
	"baukatalog/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	KATALOG_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	KATALOG_SQLITE_PATH: path to sqlite file (default ./baukatalog.db)
//	KATALOG_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore() (Store, error) {
	driver := os.Getenv("KATALOG_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("KATALOG_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("KATALOG_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
