// Package mongodb implements the repository interfaces on MongoDB.
//
// Each record type lives in its own collection and is stored as a single
// document, embedded collections included. Writes replace the whole
// document by _id.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/repository"
)

const (
	eventsCollection        = "events"
	resourcesCollection     = "resources"
	progressCollection      = "learning_progress"
	notificationsCollection = "notifications"
)

var _ repository.Store = (*Store)(nil)

// Store holds the client and one handle per collection.
type Store struct {
	client        *mongo.Client
	events        *mongo.Collection
	resources     *mongo.Collection
	progress      *mongo.Collection
	notifications *mongo.Collection
}

// Open connects to uri, verifies the connection and ensures indexes exist on
// the named database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: pinging: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:        client,
		events:        db.Collection(eventsCollection),
		resources:     db.Collection(resourcesCollection),
		progress:      db.Collection(progressCollection),
		notifications: db.Collection(notificationsCollection),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: %w", err)
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	byUser := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}

	if _, err := s.events.Indexes().CreateOne(ctx, byUser); err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}
	if _, err := s.resources.Indexes().CreateOne(ctx, byUser); err != nil {
		return fmt.Errorf("resources indexes: %w", err)
	}
	_, err := s.progress.Indexes().CreateMany(ctx, []mongo.IndexModel{
		byUser,
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("learning_progress indexes: %w", err)
	}
	_, err = s.notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("notifications indexes: %w", err)
	}
	return nil
}

// findOne decodes the document with the given _id into out, translating a
// missing document into apperror.NotFound.
func findOne(ctx context.Context, col *mongo.Collection, kind, id string, out any) error {
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound(kind, id)
		}
		return fmt.Errorf("mongodb: getting %s %s: %w", kind, id, err)
	}
	return nil
}

// findAll runs filter and decodes every matching document into a fresh slice.
// The slice is never nil, so handlers encode "[]" rather than null.
func findAll[T any](ctx context.Context, col *mongo.Collection, kind string, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing %s: %w", kind, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongodb: decoding %s: %w", kind, err)
	}
	return out, nil
}

// replaceOne overwrites the document with the given _id.
func replaceOne(ctx context.Context, col *mongo.Collection, kind, id string, doc any) error {
	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("mongodb: updating %s %s: %w", kind, id, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(kind, id)
	}
	return nil
}

func deleteOne(ctx context.Context, col *mongo.Collection, kind, id string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongodb: deleting %s %s: %w", kind, id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound(kind, id)
	}
	return nil
}

// insertionOrder sorts by _id. xid ids start with a timestamp and a counter,
// so this is creation order.
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}
