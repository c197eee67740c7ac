package health

import (
	"context"

	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
)

// DatasetPinger checks dataset source availability.
type DatasetPinger interface {
	Ping(ctx context.Context) error
}

// CatalogReader exposes the loaded catalog.
type CatalogReader interface {
	Databases() []catalog.Database
}
