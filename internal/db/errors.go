package db

import "errors"

// Sentinel errors for dataset source operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants name source operations for error context.
const (
	OpGet   = "GET"
	OpSet   = "SET"
	OpRead  = "READ"
	OpWrite = "WRITE"
	OpStat  = "STAT"
	OpPing  = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
