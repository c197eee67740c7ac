package catalog

import "fmt"

// Column is a declared table column with its type-tag (bdt).
type Column struct {
	name    string
	colType string
}

// NewColumn creates a Column.
func NewColumn(name, colType string) Column {
	return Column{name: name, colType: colType}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Type returns the column type-tag.
func (c Column) Type() string { return c.colType }

// Table is the immutable metadata of one table.
type Table struct {
	id          string
	name        string
	year        Year
	country     string
	categories  []string
	recordCount int
	columns     []Column
}

// NewTable validates and creates a Table.
func NewTable(
	id, name string,
	year Year,
	country string,
	categories []string,
	recordCount int,
	columns []Column,
) (Table, error) {
	if id == "" {
		return Table{}, fmt.Errorf("table id is required")
	}
	if categories == nil {
		categories = []string{}
	}
	return Table{
		id:          id,
		name:        name,
		year:        year,
		country:     country,
		categories:  categories,
		recordCount: recordCount,
		columns:     columns,
	}, nil
}

// ID returns the table identifier.
func (t Table) ID() string { return t.id }

// Name returns the display name.
func (t Table) Name() string { return t.name }

// Year returns the stored year.
func (t Table) Year() Year { return t.year }

// Country returns the table country (region).
func (t Table) Country() string { return t.country }

// Categories returns the table categories.
func (t Table) Categories() []string { return t.categories }

// RecordCount returns the declared row count.
func (t Table) RecordCount() int { return t.recordCount }

// Columns returns the declared columns in order.
func (t Table) Columns() []Column { return t.columns }

// ColumnNames returns the declared column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// ColumnsOfType returns the names of columns whose type-tag equals bdt.
func (t Table) ColumnsOfType(bdt string) []string {
	var names []string
	for _, c := range t.columns {
		if c.Type() == bdt {
			names = append(names, c.Name())
		}
	}
	return names
}

// HasCategory reports whether the table carries the category.
func (t Table) HasCategory(cat string) bool {
	for _, c := range t.categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Database is the immutable config of one database.
type Database struct {
	id          string
	name        string
	description string
}

// NewDatabase creates a Database.
func NewDatabase(id, name, description string) Database {
	return Database{id: id, name: name, description: description}
}

// ID returns the database identifier.
func (d Database) ID() string { return d.id }

// Name returns the display name.
func (d Database) Name() string { return d.name }

// Description returns the database description.
func (d Database) Description() string { return d.description }
