package filter

// PickedTable is one entry of the client allow-list.
// An empty DB matches the table in any database.
type PickedTable struct {
	DB    string `json:"db,omitempty"`
	Table string `json:"table"`
}

// Picked is the explicit (database, table) allow-list.
type Picked []PickedTable

// Active reports whether the constraint applies. A non-empty list is
// active even when none of its entries name a table.
func (p Picked) Active() bool { return len(p) > 0 }

// Allows reports whether (db, table) survives the constraint.
func (p Picked) Allows(db, table string) bool {
	if !p.Active() {
		return true
	}
	for _, e := range p {
		if e.Table == "" {
			continue
		}
		if e.Table == table && (e.DB == "" || e.DB == db) {
			return true
		}
	}
	return false
}
