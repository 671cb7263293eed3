// Package model defines the records stored by the application.
//
// Records carry `bson` tags because every store treats them as documents:
// the MongoDB store persists them as-is, and the SQLite store keeps the nested
// collections (participants, likes, comments) as embedded JSON columns.
// The HTTP wire shapes live in the handler package and are mapped field by
// field. The `json` tags on Comment and Like only name the keys of those
// embedded SQLite columns.
package model

import (
	"slices"
	"time"
)

// DateLayout is the calendar date format used for Event.Date (ISO 8601, date only).
const DateLayout = "2006-01-02"

// Event is a community event that other users can register for.
//
// Timestamps are epoch milliseconds, matching the wire format clients already use.
type Event struct {
	ID              string   `bson:"_id"`
	UserID          string   `bson:"userId"` // owner
	Title           string   `bson:"title"`
	Description     string   `bson:"description"`
	Date            string   `bson:"date"` // DateLayout
	Location        string   `bson:"location"`
	Category        string   `bson:"category"`
	MaxParticipants int      `bson:"maxParticipants"`
	Participants    []string `bson:"participants"`
	CreatedAt       int64    `bson:"createdAt"`
	UpdatedAt       int64    `bson:"updatedAt"`
}

// HasParticipant reports whether userID is registered for the event.
func (e *Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}

// IsFull reports whether no more participants fit.
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.MaxParticipants
}

// Day parses Date as a calendar day in loc.
func (e *Event) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// EpochMillis converts t to the millisecond timestamps stored on events and resources.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}
