package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sakif/learnhub/internal/model"
)

func (s *Store) CreateEvent(ctx context.Context, event *model.Event) error {
	event.ID = xid.New().String()
	if event.Participants == nil {
		event.Participants = []string{}
	}
	if _, err := s.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("mongodb: inserting event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := findOne(ctx, s.events, "event", id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	return findAll[model.Event](ctx, s.events, "events", bson.D{}, insertionOrder())
}

func (s *Store) ListEventsByUser(ctx context.Context, userID string) ([]model.Event, error) {
	return findAll[model.Event](ctx, s.events, "events", bson.M{"userId": userID}, insertionOrder())
}

func (s *Store) UpdateEvent(ctx context.Context, event *model.Event) error {
	return replaceOne(ctx, s.events, "event", event.ID, event)
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return deleteOne(ctx, s.events, "event", id)
}
