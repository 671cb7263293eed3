package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/repository"
)

// EventFields are the owner-editable fields of an event.
type EventFields struct {
	Title           string
	Description     string
	Date            string // model.DateLayout
	Location        string
	Category        string
	MaxParticipants int
}

// EventFilter narrows Search. Empty fields match everything.
type EventFilter struct {
	Category string
	Date     string
	Location string
}

// EventService handles events and registrations.
type EventService struct {
	repo   repository.EventRepository
	logger *slog.Logger
	now    Clock
}

func NewEventService(repo repository.EventRepository, logger *slog.Logger) *EventService {
	return &EventService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Create saves a new event owned by ownerID with no participants.
func (s *EventService) Create(ctx context.Context, ownerID string, f EventFields) (*model.Event, error) {
	ownerID, err := required("userId", ownerID)
	if err != nil {
		return nil, err
	}
	if f.MaxParticipants < 0 {
		return nil, apperror.ValidationFailed("maxParticipants", "maxParticipants must not be negative")
	}

	now := model.EpochMillis(s.now())
	event := &model.Event{
		UserID:       ownerID,
		Participants: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyEventFields(event, f)

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		s.logger.Error("failed to create event",
			slog.String("userId", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating event: %w", err)
	}

	s.logger.Info("event created",
		slog.String("id", event.ID),
		slog.String("userId", ownerID),
	)
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		s.logger.Error("failed to list events", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// GetByID returns apperror.ErrNotFound if the event doesn't exist.
func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	id, err := required("id", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetEvent(ctx, id)
}

// ListByUser returns the events userID owns. Events the user merely
// registered for are not included; see Upcoming.
func (s *EventService) ListByUser(ctx context.Context, userID string) ([]model.Event, error) {
	events, err := s.repo.ListEventsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list events by user",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing events for %s: %w", userID, err)
	}
	return events, nil
}

// Search returns the events matching every non-empty filter field.
// Category and location compare case-insensitively; date must match exactly.
func (s *EventService) Search(ctx context.Context, filter EventFilter) ([]model.Event, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]model.Event, 0, len(events))
	for _, e := range events {
		if filter.Category != "" && !strings.EqualFold(e.Category, filter.Category) {
			continue
		}
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		if filter.Location != "" && !strings.EqualFold(e.Location, filter.Location) {
			continue
		}
		matches = append(matches, e)
	}
	return matches, nil
}

// Update overwrites the editable fields of an event owned by requesterID.
// Owner and participants are never changed here.
func (s *EventService) Update(ctx context.Context, id, requesterID string, f EventFields) (*model.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner("event", event.UserID, requesterID); err != nil {
		return nil, err
	}
	if f.MaxParticipants < 0 {
		return nil, apperror.ValidationFailed("maxParticipants", "maxParticipants must not be negative")
	}
	if f.MaxParticipants < len(event.Participants) {
		return nil, apperror.ValidationFailed("maxParticipants",
			fmt.Sprintf("maxParticipants cannot be lower than the %d registered participants", len(event.Participants)))
	}

	applyEventFields(event, f)
	event.UpdatedAt = model.EpochMillis(s.now())

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		s.logger.Error("failed to update event",
			slog.String("id", event.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating event: %w", err)
	}

	s.logger.Info("event updated", slog.String("id", event.ID))
	return event, nil
}

// Delete removes an event owned by requesterID.
func (s *EventService) Delete(ctx context.Context, id, requesterID string) error {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner("event", event.UserID, requesterID); err != nil {
		return err
	}

	if err := s.repo.DeleteEvent(ctx, event.ID); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	s.logger.Info("event deleted", slog.String("id", event.ID))
	return nil
}

// Register adds userID to the event's participants.
//
// The checks run in a fixed order so the reported conflict is deterministic:
// self-registration, then duplicate registration, then capacity.
func (s *EventService) Register(ctx context.Context, id, userID string) (*model.Event, error) {
	userID, err := required("userId", userID)
	if err != nil {
		return nil, err
	}
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case event.UserID == userID:
		return nil, apperror.Conflict(apperror.ReasonSelfRegistration, "you cannot register for your own event")
	case event.HasParticipant(userID):
		return nil, apperror.Conflict(apperror.ReasonAlreadyRegistered, "you are already registered for this event")
	case event.IsFull():
		return nil, apperror.Conflict(apperror.ReasonEventFull, "this event has reached its maximum number of participants")
	}

	event.Participants = append(event.Participants, userID)
	event.UpdatedAt = model.EpochMillis(s.now())

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		s.logger.Error("failed to register for event",
			slog.String("id", event.ID),
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering for event: %w", err)
	}

	s.logger.Info("event registration",
		slog.String("id", event.ID),
		slog.String("userId", userID),
		slog.Int("participants", len(event.Participants)),
	)
	return event, nil
}

// Upcoming returns the events userID is registered for whose date is today
// or later. Today is the server's local calendar date at call time; events
// whose date does not parse are skipped.
func (s *EventService) Upcoming(ctx context.Context, userID string) ([]model.Event, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	upcoming := make([]model.Event, 0)
	for _, e := range events {
		if !e.HasParticipant(userID) {
			continue
		}
		day, err := e.Day(now.Location())
		if err != nil {
			s.logger.Debug("skipping event with unparseable date",
				slog.String("id", e.ID),
				slog.String("date", e.Date),
			)
			continue
		}
		if !day.Before(today) {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming, nil
}

func applyEventFields(e *model.Event, f EventFields) {
	e.Title = strings.TrimSpace(f.Title)
	e.Description = strings.TrimSpace(f.Description)
	e.Date = strings.TrimSpace(f.Date)
	e.Location = strings.TrimSpace(f.Location)
	e.Category = strings.TrimSpace(f.Category)
	e.MaxParticipants = f.MaxParticipants
}
