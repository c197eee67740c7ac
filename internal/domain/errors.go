package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals malformed or incomplete client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDatasetCorrupt signals stored dataset documents that cannot be decoded.
	ErrDatasetCorrupt = errors.New("dataset corrupt")
)

// Resource kinds reported by NotFoundError.
const (
	KindDatabase      = "database"
	KindTable         = "table"
	KindTableMetadata = "table metadata"
)

// NotFoundError wraps ErrNotFound with the identifier that could not be resolved.
// Parent is set when the lookup was scoped, e.g. a table inside a database.
type NotFoundError struct {
	Kind   string
	ID     string
	Parent string
}

func (e *NotFoundError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s %s not found in %s %s", e.Kind, e.ID, KindDatabase, e.Parent)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewDatabaseNotFound reports an unknown database key.
func NewDatabaseNotFound(db string) error {
	return &NotFoundError{Kind: KindDatabase, ID: db}
}

// NewTableNotFound reports a table that is not assigned to the database.
func NewTableNotFound(db, table string) error {
	return &NotFoundError{Kind: KindTable, ID: table, Parent: db}
}

// NewTableMetadataNotFound reports a table without resolvable metadata.
func NewTableMetadataNotFound(table string) error {
	return &NotFoundError{Kind: KindTableMetadata, ID: table}
}

// InvalidRequestError wraps ErrInvalidRequest with a client-facing message.
type InvalidRequestError struct {
	Msg string
}

func (e *InvalidRequestError) Error() string { return e.Msg }

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// NewInvalidRequest creates a client-input error with a formatted message.
func NewInvalidRequest(format string, args ...any) error {
	return &InvalidRequestError{Msg: fmt.Sprintf(format, args...)}
}
