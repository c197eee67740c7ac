// Package dataset decodes the stored JSON dataset into domain types.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/wisdom/internal/db"
	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/catalog"
)

type metadataDoc struct {
	Metadata            json.RawMessage     `json:"metadata"`
	DatabaseConfig      json.RawMessage     `json:"databaseConfig"`
	DatabaseAssignments map[string][]string `json:"databaseAssignments"`
}

type tableDoc struct {
	Name        *string      `json:"name"`
	Year        catalog.Year `json:"year"`
	Country     *string      `json:"country"`
	Categories  []string     `json:"categories"`
	RecordCount json.Number  `json:"recordCount"`
	Columns     []columnDoc  `json:"columns"`
}

type columnDoc struct {
	Name string  `json:"name"`
	Type *string `json:"type"`
}

type databaseDoc struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// LoadCatalog reads and decodes the metadata document.
func LoadCatalog(ctx context.Context, reader db.DocumentReader) (*catalog.Catalog, error) {
	data, err := reader.ReadMetadata(ctx)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: metadata document missing", domain.ErrDatasetCorrupt)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return DecodeCatalog(data)
}

// DecodeCatalog decodes a metadata document. Tables whose metadata is
// null or {} are treated as unknown and skipped.
func DecodeCatalog(data []byte) (*catalog.Catalog, error) {
	var doc metadataDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, corrupt("metadata", err)
	}

	tableMembers, err := orderedMembers(doc.Metadata)
	if err != nil {
		return nil, corrupt("metadata.metadata", err)
	}
	tables := make([]catalog.Table, 0, len(tableMembers))
	for _, m := range tableMembers {
		if isEmptyObject(m.value) {
			continue
		}
		t, err := decodeTable(m.key, m.value)
		if err != nil {
			return nil, corrupt("table "+m.key, err)
		}
		tables = append(tables, t)
	}

	dbMembers, err := orderedMembers(doc.DatabaseConfig)
	if err != nil {
		return nil, corrupt("metadata.databaseConfig", err)
	}
	databases := make([]catalog.Database, 0, len(dbMembers))
	for _, m := range dbMembers {
		var d databaseDoc
		if err := json.Unmarshal(m.value, &d); err != nil {
			return nil, corrupt("database "+m.key, err)
		}
		databases = append(databases, catalog.NewDatabase(m.key, deref(d.Name), deref(d.Description)))
	}

	return catalog.New(tables, databases, doc.DatabaseAssignments), nil
}

func decodeTable(id string, raw json.RawMessage) (catalog.Table, error) {
	var d tableDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return catalog.Table{}, err
	}

	count, err := parseCount(d.RecordCount)
	if err != nil {
		return catalog.Table{}, fmt.Errorf("recordCount: %w", err)
	}

	columns := make([]catalog.Column, len(d.Columns))
	for i, c := range d.Columns {
		columns[i] = catalog.NewColumn(c.Name, deref(c.Type))
	}

	t, err := catalog.NewTable(id, deref(d.Name), d.Year, deref(d.Country), d.Categories, count, columns)
	if err != nil {
		return catalog.Table{}, fmt.Errorf("build table: %w", err)
	}
	return t, nil
}

func parseCount(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(n.String()); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func corrupt(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrDatasetCorrupt, what, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
