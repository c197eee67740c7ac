package search

import (
	"context"

	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
	"github.com/kailas-cloud/wisdom/internal/domain/record"
)

// TableIndex resolves table metadata by id.
type TableIndex interface {
	Table(id string) (catalog.Table, bool)
}

// Catalog is the read-only view of tables, databases and assignments.
type Catalog interface {
	TableIndex
	Database(id string) (catalog.Database, bool)
	Assignment(db string) ([]string, bool)
	IsAssigned(db, table string) bool
}

// RecordSource loads the records stored for a database.
type RecordSource interface {
	Records(ctx context.Context, database string) ([]record.Record, error)
}
