package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"medical-admin-dashboard/config"
	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is a RecordStore that can be health checked and closed.
type Store interface {
	repository.RecordStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// MongoStore runs record operations against a MongoDB database.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	log     *logrus.Logger

	mu     sync.RWMutex
	closed bool
}

func NewMongoConnection(cfg config.MongoConfig, log *logrus.Logger) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb URI is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongodb database is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.WithField("database", cfg.Database).Info("Successfully connected to MongoDB")

	return &MongoStore{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

func (s *MongoStore) Aggregate(ctx context.Context, collection string, pipeline aggregation.Pipeline) ([]bson.M, error) {
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	cursor, err := s.db.Collection(collection).Aggregate(opCtx, pipeline.BSON())
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	defer cursor.Close(opCtx)

	rows := []bson.M{}
	if err := cursor.All(opCtx, &rows); err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	return rows, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter aggregation.Filter) (int64, error) {
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	n, err := s.db.Collection(collection).CountDocuments(opCtx, filter.BSON())
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter aggregation.Filter, out interface{}) error {
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	err := s.db.Collection(collection).FindOne(opCtx, filter.BSON()).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrRecordNotFound
	}
	return err
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	if _, err := s.db.Collection(collection).InsertMany(opCtx, docs); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter aggregation.Filter) (int64, error) {
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	res, err := s.db.Collection(collection).DeleteMany(opCtx, filter.BSON())
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection string, filter aggregation.Filter, set map[string]interface{}, upsert bool) error {
	opCtx, cancel := s.withOperationTimeout(ctx)
	defer cancel()

	update := bson.D{{Key: "$set", Value: set}}
	res, err := s.db.Collection(collection).UpdateOne(opCtx, filter.BSON(), update, options.Update().SetUpsert(upsert))
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if !upsert && res.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return errors.New("mongodb store is closed")
	}
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	s.log.Info("MongoDB connection closed")
	return nil
}

func (s *MongoStore) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
