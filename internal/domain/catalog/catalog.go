package catalog

import "sort"

// Catalog is the read-only metadata snapshot: tables, databases and
// database-to-table assignments. Built once and shared across requests.
type Catalog struct {
	tables      map[string]Table
	tableOrder  []string
	databases   map[string]Database
	dbOrder     []string
	assignments map[string][]string
}

// New builds a Catalog. Slice order is kept for listings.
func New(tables []Table, databases []Database, assignments map[string][]string) *Catalog {
	c := &Catalog{
		tables:      make(map[string]Table, len(tables)),
		tableOrder:  make([]string, 0, len(tables)),
		databases:   make(map[string]Database, len(databases)),
		dbOrder:     make([]string, 0, len(databases)),
		assignments: make(map[string][]string, len(assignments)),
	}
	for _, t := range tables {
		if _, dup := c.tables[t.ID()]; !dup {
			c.tableOrder = append(c.tableOrder, t.ID())
		}
		c.tables[t.ID()] = t
	}
	for _, d := range databases {
		if _, dup := c.databases[d.ID()]; !dup {
			c.dbOrder = append(c.dbOrder, d.ID())
		}
		c.databases[d.ID()] = d
	}
	for db, ids := range assignments {
		cp := make([]string, len(ids))
		copy(cp, ids)
		c.assignments[db] = cp
	}
	return c
}

// Table looks up table metadata by id.
func (c *Catalog) Table(id string) (Table, bool) {
	t, ok := c.tables[id]
	return t, ok
}

// Tables returns all tables in stored order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tableOrder))
	for i, id := range c.tableOrder {
		out[i] = c.tables[id]
	}
	return out
}

// Database looks up database config by id.
func (c *Catalog) Database(id string) (Database, bool) {
	d, ok := c.databases[id]
	return d, ok
}

// Databases returns all configured databases in stored order.
func (c *Catalog) Databases() []Database {
	out := make([]Database, len(c.dbOrder))
	for i, id := range c.dbOrder {
		out[i] = c.databases[id]
	}
	return out
}

// Assignment returns the table ids assigned to db.
// ok is false for a database with no assignment entry (unknown database).
func (c *Catalog) Assignment(db string) ([]string, bool) {
	ids, ok := c.assignments[db]
	return ids, ok
}

// IsAssigned reports whether table belongs to db.
func (c *Catalog) IsAssigned(db, table string) bool {
	for _, id := range c.assignments[db] {
		if id == table {
			return true
		}
	}
	return false
}

// TypeTags returns every non-empty column type-tag, deduplicated and sorted.
func (c *Catalog) TypeTags() []string {
	seen := make(map[string]struct{})
	for _, t := range c.tables {
		for _, col := range t.Columns() {
			if col.Type() != "" {
				seen[col.Type()] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
