package request

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/wisdom/internal/domain/search/filter"
	"github.com/kailas-cloud/wisdom/internal/domain/search/page"
	"github.com/kailas-cloud/wisdom/internal/domain/search/query"
)

func TestNewTables_DedupesInOrder(t *testing.T) {
	r, err := NewTables([]string{"db2", "db1", "db2", "", "db1"}, query.All(), filter.Filters{}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(r.Databases(), []string{"db2", "db1"}) {
		t.Errorf("unexpected databases %v", r.Databases())
	}
}

func TestNewTables_Empty(t *testing.T) {
	for _, dbs := range [][]string{nil, {}, {""}} {
		if _, err := NewTables(dbs, query.All(), filter.Filters{}, nil, nil); err == nil {
			t.Errorf("expected error for %v", dbs)
		}
	}
}

func TestNewRows_Validation(t *testing.T) {
	ok := page.Request{PageNumber: 1, SizeLimit: 20}
	tests := []struct {
		name    string
		db      string
		table   string
		pg      page.Request
		wantErr bool
	}{
		{"valid", "db1", "t1", ok, false},
		{"negative start allowed", "db1", "t1", page.Request{PageNumber: 1, StartRow: -3, SizeLimit: 5}, false},
		{"missing db", "", "t1", ok, true},
		{"missing table", "db1", "", ok, true},
		{"page zero", "db1", "t1", page.Request{PageNumber: 0, SizeLimit: 5}, true},
		{"size zero", "db1", "t1", page.Request{PageNumber: 1, SizeLimit: 0}, true},
		{"size over max", "db1", "t1", page.Request{PageNumber: 1, SizeLimit: 101}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRows(tc.db, tc.table, query.All(), filter.Filters{}, nil, nil, tc.pg, 100)
			if (err != nil) != tc.wantErr {
				t.Errorf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}
