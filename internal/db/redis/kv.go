package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/wisdom/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// ReadMetadata reads the metadata document.
func (s *Store) ReadMetadata(ctx context.Context) ([]byte, error) {
	return s.Get(ctx, s.MetadataKey())
}

// ReadRecords reads a database's records document.
func (s *Store) ReadRecords(ctx context.Context, database string) ([]byte, error) {
	return s.Get(ctx, s.RecordsKey(database))
}

// WriteMetadata stores the metadata document.
func (s *Store) WriteMetadata(ctx context.Context, data []byte) error {
	return s.Set(ctx, s.MetadataKey(), data)
}

// WriteRecords stores a database's records document.
func (s *Store) WriteRecords(ctx context.Context, database string, data []byte) error {
	return s.Set(ctx, s.RecordsKey(database), data)
}
