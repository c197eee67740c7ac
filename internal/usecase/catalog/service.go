// Package catalog lists dataset metadata.
package catalog

import "github.com/kailas-cloud/wisdom/internal/domain/catalog"

// DatabaseEntry is a database with its assigned table ids.
type DatabaseEntry struct {
	Database  catalog.Database
	TableKeys []string
}

// Listing is the full catalog: tables in metadata order, databases in
// configuration order.
type Listing struct {
	Tables    []catalog.Table
	Databases []DatabaseEntry
}

// Service answers catalog queries.
type Service struct {
	reader Reader
}

// New creates a catalog service.
func New(reader Reader) *Service {
	return &Service{reader: reader}
}

// Catalog lists every table and database. Databases without an
// assignment report an empty table list.
func (s *Service) Catalog() Listing {
	dbs := s.reader.Databases()
	entries := make([]DatabaseEntry, 0, len(dbs))
	for _, d := range dbs {
		keys, ok := s.reader.Assignment(d.ID())
		if !ok || keys == nil {
			keys = []string{}
		}
		entries = append(entries, DatabaseEntry{Database: d, TableKeys: keys})
	}
	return Listing{Tables: s.reader.Tables(), Databases: entries}
}

// BDTs returns the sorted distinct column type-tags.
func (s *Service) BDTs() []string {
	tags := s.reader.TypeTags()
	if tags == nil {
		return []string{}
	}
	return tags
}
