// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/sessionstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is one browser's server-side session. The cookie only carries
// the record ID; Values holds the Session Store entries keyed by name.
type Record struct {
	ID           string            `bson:"_id"`
	Values       map[string]string `bson:"values,omitempty"`
	CreatedAt    time.Time         `bson:"created_at"`
	LastActiveAt time.Time         `bson:"last_active_at"`
}

// Store manages server-side session records.
type Store struct {
	c *mongo.Collection
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("session_records")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Idle sweep
		{
			Keys:    bson.D{{Key: "last_active_at", Value: 1}},
			Options: options.Index().SetName("idx_session_records_last_active"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Get returns the stored value for key in record id, or (nil, nil)
// when either the record or the key does not exist.
func (s *Store) Get(ctx context.Context, id, key string) ([]byte, error) {
	var rec Record
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"values." + key: 1})).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v, ok := rec.Values[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

// Set upserts key in record id and bumps last_active_at.
func (s *Store) Set(ctx context.Context, id, key string, value []byte) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":         bson.M{"values." + key: string(value), "last_active_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Unset removes key from record id. Missing records are not an error.
func (s *Store) Unset(ctx context.Context, id, key string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$unset": bson.M{"values." + key: ""},
			"$set":   bson.M{"last_active_at": time.Now().UTC()},
		},
	)
	return err
}

// Delete removes the whole record.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteIdle removes records not touched within idle and returns how
// many were removed.
func (s *Store) DeleteIdle(ctx context.Context, idle time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-idle)
	res, err := s.c.DeleteMany(ctx, bson.M{"last_active_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// For returns a Session Store KV bound to record id.
func (s *Store) For(id string) sessionstore.KV {
	return recordKV{s: s, id: id}
}

type recordKV struct {
	s  *Store
	id string
}

func (k recordKV) Get(ctx context.Context, key string) ([]byte, error) {
	return k.s.Get(ctx, k.id, key)
}

func (k recordKV) Set(ctx context.Context, key string, value []byte) error {
	return k.s.Set(ctx, k.id, key, value)
}

func (k recordKV) Delete(ctx context.Context, key string) error {
	return k.s.Unset(ctx, k.id, key)
}
