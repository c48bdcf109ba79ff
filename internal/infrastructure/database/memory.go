package database

import (
	"context"
	"fmt"
	"sync"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps collections in process and runs pipelines through the
// aggregation evaluator. Records are stored in the shape the MongoDB driver
// would return them, so both stores decode identically.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]aggregation.Document
	log  *logrus.Logger
}

func NewMemoryStore(log *logrus.Logger) *MemoryStore {
	log.Info("Using in-memory record store")
	return &MemoryStore{data: make(map[string][]aggregation.Document), log: log}
}

// Documents returns a snapshot of collection. Stored documents are never
// mutated in place, so the snapshot stays consistent.
func (s *MemoryStore) Documents(_ context.Context, collection string) ([]aggregation.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.data[collection]
	out := make([]aggregation.Document, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *MemoryStore) Aggregate(ctx context.Context, collection string, pipeline aggregation.Pipeline) ([]bson.M, error) {
	docs, err := s.Documents(ctx, collection)
	if err != nil {
		return nil, err
	}
	res, err := aggregation.Evaluate(ctx, s, docs, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	rows := make([]bson.M, len(res))
	for i, d := range res {
		rows[i] = toBSON(d).(bson.M)
	}
	return rows, nil
}

func (s *MemoryStore) Count(_ context.Context, collection string, filter aggregation.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, d := range s.data[collection] {
		if filter.Matches(d) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) FindOne(_ context.Context, collection string, filter aggregation.Filter, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.data[collection] {
		if filter.Matches(d) {
			return aggregation.Decode(toBSON(d), out)
		}
	}
	return repository.ErrRecordNotFound
}

func (s *MemoryStore) InsertMany(_ context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	normalized := make([]aggregation.Document, 0, len(docs))
	for _, doc := range docs {
		d, err := normalizeDocument(doc)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", collection, err)
		}
		if _, ok := d["_id"]; !ok {
			d["_id"] = primitive.NewObjectID()
		}
		normalized = append(normalized, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[collection] = append(s.data[collection], normalized...)
	return nil
}

func (s *MemoryStore) DeleteMany(_ context.Context, collection string, filter aggregation.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]aggregation.Document, 0, len(s.data[collection]))
	var deleted int64
	for _, d := range s.data[collection] {
		if filter.Matches(d) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	s.data[collection] = kept
	return deleted, nil
}

// UpdateOne sets top level fields on the first matching document. With
// upsert, a missing document is created from the filter's plain values.
func (s *MemoryStore) UpdateOne(_ context.Context, collection string, filter aggregation.Filter, set map[string]interface{}, upsert bool) error {
	fields, err := normalizeDocument(bson.M(set))
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.data[collection]
	for i, d := range docs {
		if !filter.Matches(d) {
			continue
		}
		updated := make(aggregation.Document, len(d)+len(fields))
		for k, v := range d {
			updated[k] = v
		}
		for k, v := range fields {
			updated[k] = v
		}
		docs[i] = updated
		return nil
	}
	if !upsert {
		return repository.ErrRecordNotFound
	}

	seed := bson.M{}
	for k, v := range filter {
		switch v.(type) {
		case aggregation.InCondition, aggregation.NotEqualCondition:
			continue
		}
		seed[k] = v
	}
	created, err := normalizeDocument(seed)
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	for k, v := range fields {
		created[k] = v
	}
	created["_id"] = primitive.NewObjectID()
	s.data[collection] = append(docs, created)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

// normalizeDocument round trips doc through BSON so struct tags, dates and
// integer widths match what MongoDB would store.
func normalizeDocument(doc interface{}) (aggregation.Document, error) {
	var m bson.M
	if err := aggregation.Decode(doc, &m); err != nil {
		return nil, err
	}
	d, ok := aggregation.Normalize(m).(aggregation.Document)
	if !ok {
		return nil, fmt.Errorf("unexpected document type %T", doc)
	}
	return d, nil
}

// toBSON converts evaluator output into driver shaped values.
func toBSON(v interface{}) interface{} {
	switch t := v.(type) {
	case aggregation.Document:
		out := make(bson.M, len(t))
		for k, val := range t {
			out[k] = toBSON(val)
		}
		return out
	case []interface{}:
		out := make(bson.A, len(t))
		for i, val := range t {
			out[i] = toBSON(val)
		}
		return out
	}
	return v
}
