// Package notify delivers social-interaction notifications to entry owners.
//
// Dispatch is fire-and-forget: Sink.Notify has no return value, and a
// delivery failure is logged and dropped. The mutation that triggered the
// notification has already been persisted by the time Notify runs and is
// never rolled back because of it.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/repository"
)

// DefaultTimeout bounds one delivery attempt.
const DefaultTimeout = 5 * time.Second

// Event describes one social interaction worth telling the recipient about.
type Event struct {
	Kind            model.NotificationType
	EntryID         string
	RecipientUserID string // owner of the entry
	ActorUserID     string // who commented or liked
	Content         string // comment text; empty for likes
}

// Sink accepts notification events. Implementations must not block the
// caller for longer than a single store write and must not panic.
type Sink interface {
	Notify(ctx context.Context, ev Event)
}

// StoreSink persists each event as an unread inbox notification.
type StoreSink struct {
	store   repository.NotificationRepository
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewStoreSink creates a StoreSink writing to store.
func NewStoreSink(store repository.NotificationRepository, logger *slog.Logger) *StoreSink {
	return &StoreSink{
		store:   store,
		logger:  logger,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// Notify stores ev. The write is detached from ctx cancellation, so a client
// that disconnects right after its like was saved still produces the
// notification.
func (s *StoreSink) Notify(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	n := &model.Notification{
		UserID:    ev.RecipientUserID,
		Type:      ev.Kind,
		EntryID:   ev.EntryID,
		ActorID:   ev.ActorUserID,
		Message:   ev.Content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("notification dropped",
			slog.String("kind", string(ev.Kind)),
			slog.String("entryID", ev.EntryID),
			slog.String("recipient", ev.RecipientUserID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Debug("notification stored",
		slog.String("id", n.ID),
		slog.String("kind", string(ev.Kind)),
		slog.String("recipient", ev.RecipientUserID),
	)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Notify(context.Context, Event) {}
