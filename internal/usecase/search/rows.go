package search

import "github.com/kailas-cloud/wisdom/internal/domain/record"

// ProjectRows keeps the records of table that satisfy ev and renders each
// as its values for columns, in record order. Missing and null fields
// become "". scanned is the number of records belonging to table.
func ProjectRows(records []record.Record, table string, columns []string, ev *Evaluator) (rows [][]string, scanned int) {
	rows = make([][]string, 0)
	for _, r := range records {
		if r.TableKey() != table {
			continue
		}
		scanned++
		if !ev.Match(r) {
			continue
		}
		rows = append(rows, r.Project(columns))
	}
	return rows, scanned
}
