package model

import "time"

// NotificationType says which social interaction produced a notification.
type NotificationType string

const (
	NotificationComment NotificationType = "comment"
	NotificationLike    NotificationType = "like"
)

// Notification is an inbox item addressed to the owner of a learning progress entry.
type Notification struct {
	ID        string           `bson:"_id"`
	UserID    string           `bson:"userId"` // recipient
	Type      NotificationType `bson:"type"`
	EntryID   string           `bson:"entryId"`
	ActorID   string           `bson:"actorId"` // who commented or liked
	Message   string           `bson:"message"` // comment content; empty for likes
	Read      bool             `bson:"read"`
	CreatedAt time.Time        `bson:"createdAt"`
}
