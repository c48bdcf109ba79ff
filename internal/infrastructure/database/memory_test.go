package database

import (
	"context"
	"io"
	"testing"
	"time"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMemoryStoreInsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(newTestLogger())
	created := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, store.InsertMany(ctx, entity.CollectionDoctorProfiles, []interface{}{
		entity.DoctorProfile{IDDoctor: 1, DoctorName: "Dr. A", VerificationStatus: entity.VerificationStatusUnverified, UpdatedAt: created},
	}))

	var profile entity.DoctorProfile
	require.NoError(t, store.FindOne(ctx, entity.CollectionDoctorProfiles, aggregation.Filter{"idDoctor": 1}, &profile))
	assert.Equal(t, "Dr. A", profile.DoctorName)
	assert.True(t, created.Equal(profile.UpdatedAt))

	err := store.FindOne(ctx, entity.CollectionDoctorProfiles, aggregation.Filter{"idDoctor": 2}, &profile)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestMemoryStoreInsertAssignsObjectID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(newTestLogger())
	require.NoError(t, store.InsertMany(ctx, "things", []interface{}{bson.M{"n": 1}}))

	docs, err := store.Documents(ctx, "things")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.IsType(t, primitive.ObjectID{}, docs[0]["_id"])
}

func TestMemoryStoreAggregateReturnsDriverShapes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(newTestLogger())
	require.NoError(t, store.InsertMany(ctx, entity.CollectionDoctors, []interface{}{
		entity.Doctor{ID: 1, Name: "Dr. A"},
	}))
	require.NoError(t, store.InsertMany(ctx, entity.CollectionDoctorProfiles, []interface{}{
		entity.DoctorProfile{IDDoctor: 1, VerificationStatus: entity.VerificationStatusVerified},
	}))

	rows, err := store.Aggregate(ctx, entity.CollectionDoctors, aggregation.Pipeline{
		aggregation.Lookup{From: entity.CollectionDoctorProfiles, LocalField: "id", ForeignField: "idDoctor", As: "profiles"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	profiles, ok := rows[0]["profiles"].(bson.A)
	require.True(t, ok)
	require.Len(t, profiles, 1)
	profile, ok := profiles[0].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "verified", profile["verificationStatus"])
}

func TestMemoryStoreUpdateOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(newTestLogger())
	coll := entity.CollectionOcrResults

	err := store.UpdateOne(ctx, coll, aggregation.Filter{"idDoctor": 7}, map[string]interface{}{"encryptedData": "a:b"}, false)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	require.NoError(t, store.UpdateOne(ctx, coll, aggregation.Filter{"idDoctor": 7}, map[string]interface{}{"encryptedData": "a:b"}, true))
	require.NoError(t, store.UpdateOne(ctx, coll, aggregation.Filter{"idDoctor": 7}, map[string]interface{}{"encryptedData": "c:d"}, true))

	n, err := store.Count(ctx, coll, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var result entity.OcrResult
	require.NoError(t, store.FindOne(ctx, coll, aggregation.Filter{"idDoctor": 7}, &result))
	assert.Equal(t, 7, result.IDDoctor)
	assert.Equal(t, "c:d", result.EncryptedData)
}

func TestMemoryStoreDeleteMany(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(newTestLogger())
	require.NoError(t, store.InsertMany(ctx, "things", []interface{}{
		bson.M{"kind": "a"}, bson.M{"kind": "b"}, bson.M{"kind": "a"},
	}))

	deleted, err := store.DeleteMany(ctx, "things", aggregation.Filter{"kind": "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = store.DeleteMany(ctx, "things", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	n, err := store.Count(ctx, "things", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
