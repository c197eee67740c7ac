package db

import (
	"context"
	"fmt"
	"time"
)

// Store is the dataset source facade: the metadata document plus one
// records document per database, both stored as JSON.
type Store interface {
	Pinger
	DocumentReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks source availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentReader reads raw dataset documents.
// Both methods return ErrKeyNotFound when the document does not exist.
type DocumentReader interface {
	ReadMetadata(ctx context.Context) ([]byte, error)
	ReadRecords(ctx context.Context, database string) ([]byte, error)
}

// DocumentWriter stores raw dataset documents (used for seeding).
type DocumentWriter interface {
	WriteMetadata(ctx context.Context, data []byte) error
	WriteRecords(ctx context.Context, database string, data []byte) error
}

// Document names shared by all drivers.
const (
	MetadataDocument = "metadata"
	RecordsDocument  = "records"
)

// pollInterval is the WaitForReady retry period.
const pollInterval = 100 * time.Millisecond

// WaitForReady polls p until it responds or timeout expires.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for dataset source: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
