// Package file reads dataset documents from a directory:
// <dir>/metadata.json and <dir>/records/<database>.json.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kailas-cloud/wisdom/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds the dataset directory.
type Config struct {
	Dir string
}

// Store implements db.Store over the local filesystem.
type Store struct {
	dir string
}

// NewStore creates a file store rooted at cfg.Dir.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	return &Store{dir: filepath.Clean(cfg.Dir)}, nil
}

// Ping checks that the dataset directory exists. Missing documents are
// reported by the reads, not here.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return &db.Error{Op: db.OpStat, Err: err}
	}
	if !info.IsDir() {
		return &db.Error{Op: db.OpStat, Err: fmt.Errorf("%s is not a directory", s.dir)}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady polls Ping until the directory appears or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// ReadMetadata reads <dir>/metadata.json.
func (s *Store) ReadMetadata(_ context.Context) ([]byte, error) {
	return read(s.metadataPath())
}

// ReadRecords reads <dir>/records/<database>.json.
func (s *Store) ReadRecords(_ context.Context, database string) ([]byte, error) {
	if !validName(database) {
		return nil, db.ErrKeyNotFound
	}
	return read(s.recordsPath(database))
}

// WriteMetadata replaces <dir>/metadata.json.
func (s *Store) WriteMetadata(_ context.Context, data []byte) error {
	return write(s.metadataPath(), data)
}

// WriteRecords replaces <dir>/records/<database>.json.
func (s *Store) WriteRecords(_ context.Context, database string, data []byte) error {
	if !validName(database) {
		return &db.Error{Op: db.OpWrite, Err: fmt.Errorf("invalid database name %q", database)}
	}
	return write(s.recordsPath(database), data)
}

// Databases lists the databases that have a records document.
func (s *Store) Databases() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, db.RecordsDocument))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpRead, Err: err}
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.dir, db.MetadataDocument+".json")
}

func (s *Store) recordsPath(database string) string {
	return filepath.Join(s.dir, db.RecordsDocument, database+".json")
}

func read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpRead, Err: err}
	}
	return data, nil
}

func write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	return nil
}

// validName rejects names that would escape the records directory.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
