package katalog

import "context"

// Store is the minimal abstraction over durable backends. Rows are written
// once per catalog ingestion event and treated as immutable afterwards; all
// reads are keyed exact matches. Implementations must return List results
// ordered by FullNumber ascending so that sibling groups keep their catalog
// order when reassembled.
type Store interface {
	// PutRecords appends a batch of ingested rows.
	PutRecords(ctx context.Context, records []Record) error
	// GetByFullNumber returns the first row whose FullNumber matches exactly.
	// Absence is reported via the bool, never as an error.
	GetByFullNumber(ctx context.Context, fullNumber string) (Record, bool, error)
	// List returns all rows matching the query, ordered by FullNumber.
	List(ctx context.Context, q RecordQuery) ([]Record, error)
	// Count returns the number of rows matching the query, ignoring
	// pagination.
	Count(ctx context.Context, q RecordQuery) (int, error)
	// Close releases backend resources.
	Close() error
}
