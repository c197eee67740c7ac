package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/wisdom/internal/db"
	"github.com/kailas-cloud/wisdom/internal/domain"
	"github.com/kailas-cloud/wisdom/internal/domain/record"
)

type recordsDoc struct {
	Records []json.RawMessage `json:"records"`
}

// RecordStore loads a database's records on first use and keeps them for
// the process lifetime. Concurrent first loads share one read; failures
// are not cached.
type RecordStore struct {
	reader db.DocumentReader
	group  singleflight.Group
	loaded *prometheus.CounterVec
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string][]record.Record
}

// NewRecordStore creates a lazy record store.
// loaded is a counter vec with label "database", passed explicitly (may be nil).
func NewRecordStore(reader db.DocumentReader, loaded *prometheus.CounterVec, logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{
		reader: reader,
		loaded: loaded,
		logger: logger,
		cache:  make(map[string][]record.Record),
	}
}

// Records returns the ordered records of database.
// A database without a records document is reported as not found.
func (s *RecordStore) Records(ctx context.Context, database string) ([]record.Record, error) {
	s.mu.RLock()
	recs, ok := s.cache[database]
	s.mu.RUnlock()
	if ok {
		return recs, nil
	}

	v, err, _ := s.group.Do(database, func() (any, error) {
		s.mu.RLock()
		recs, ok := s.cache[database]
		s.mu.RUnlock()
		if ok {
			return recs, nil
		}

		// The load is shared by every waiter, so one caller going away must
		// not fail it for the others.
		recs, err := s.load(context.WithoutCancel(ctx), database)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[database] = recs
		s.mu.Unlock()
		return recs, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // load already wraps
	}
	return v.([]record.Record), nil
}

func (s *RecordStore) load(ctx context.Context, database string) ([]record.Record, error) {
	data, err := s.reader.ReadRecords(ctx, database)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.NewDatabaseNotFound(database)
		}
		return nil, fmt.Errorf("read records %s: %w", database, err)
	}

	recs, err := DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("records %s: %w", database, err)
	}

	if s.loaded != nil {
		s.loaded.WithLabelValues(database).Add(float64(len(recs)))
	}
	s.logger.Info("Loaded records",
		zap.String("database", database),
		zap.Int("records", len(recs)),
	)
	return recs, nil
}

// DecodeRecords decodes a records document. Numbers keep their stored text.
func DecodeRecords(data []byte) ([]record.Record, error) {
	var doc recordsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, corrupt("records", err)
	}

	out := make([]record.Record, 0, len(doc.Records))
	for i, raw := range doc.Records {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			return nil, corrupt(fmt.Sprintf("record %d", i), err)
		}
		if fields == nil {
			return nil, corrupt(fmt.Sprintf("record %d", i), errors.New("record must be an object"))
		}
		out = append(out, record.New(fields))
	}
	return out, nil
}
