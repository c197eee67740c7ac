package catalog

import "github.com/kailas-cloud/wisdom/internal/domain/catalog"

// Reader is the read-only catalog snapshot.
type Reader interface {
	Tables() []catalog.Table
	Databases() []catalog.Database
	Assignment(db string) ([]string, bool)
	TypeTags() []string
}
