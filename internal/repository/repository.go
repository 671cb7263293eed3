// Package repository declares the storage interfaces the services depend on.
//
// Two implementations exist: repository/sqlite (embedded, the default) and
// repository/mongodb. Both are document-shaped: a Save/Update call writes the
// whole record, including embedded collections, in one statement.
//
// Get/Update/Delete return apperror.ErrNotFound when the id has no record.
package repository

import (
	"context"

	"github.com/sakif/learnhub/internal/model"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListEventsByUser(ctx context.Context, userID string) ([]model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

type ResourceRepository interface {
	CreateResource(ctx context.Context, resource *model.Resource) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	ListResources(ctx context.Context) ([]model.Resource, error)
	ListResourcesByUser(ctx context.Context, userID string) ([]model.Resource, error)
	// SearchResourcesByTitle matches title substrings, ignoring case.
	SearchResourcesByTitle(ctx context.Context, query string) ([]model.Resource, error)
	UpdateResource(ctx context.Context, resource *model.Resource) error
	DeleteResource(ctx context.Context, id string) error
}

type ProgressRepository interface {
	CreateProgress(ctx context.Context, progress *model.LearningProgress) error
	GetProgress(ctx context.Context, id string) (*model.LearningProgress, error)
	// ListProgress returns every entry, newest first.
	ListProgress(ctx context.Context) ([]model.LearningProgress, error)
	ListProgressByUser(ctx context.Context, userID string) ([]model.LearningProgress, error)
	UpdateProgress(ctx context.Context, progress *model.LearningProgress) error
	DeleteProgress(ctx context.Context, id string) error
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	// ListNotifications returns the newest limit notifications addressed to userID.
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Store bundles every repository behind one connection. Server wiring opens
// one Store and hands each service the narrow interface it needs.
type Store interface {
	EventRepository
	ResourceRepository
	ProgressRepository
	NotificationRepository
	Close() error
}
