package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
)

func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	n.ID = xid.New().String()
	if _, err := s.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("mongodb: inserting notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return findAll[model.Notification](ctx, s.notifications, "notifications", bson.M{"userId": userID}, opts)
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	n, err := s.notifications.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("mongodb: counting unread notifications: %w", err)
	}
	return int(n), nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res, err := s.notifications.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: marking notification %s read: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("notification", id)
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.notifications.UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: marking notifications read for %s: %w", userID, err)
	}
	return nil
}
