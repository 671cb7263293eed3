package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/repository"
)

const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

// NotificationService reads and acknowledges a user's notification inbox.
// Notifications are written by notify.StoreSink, never through this service.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger,
	}
}

// List returns userID's newest notifications. limit is clamped to
// 1..MaxNotificationLimit; zero or less means DefaultNotificationLimit.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	userID, err := required("userId", userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}

	notifications, err := s.repo.ListNotifications(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list notifications",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	userID, err := required("userId", userID)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead returns apperror.ErrNotFound if id doesn't exist or belongs to
// another user.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	id, err := required("id", id)
	if err != nil {
		return err
	}
	userID, err = required("userId", userID)
	if err != nil {
		return err
	}
	return s.repo.MarkNotificationRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	userID, err := required("userId", userID)
	if err != nil {
		return err
	}

	if err := s.repo.MarkAllNotificationsRead(ctx, userID); err != nil {
		s.logger.Error("failed to mark notifications read",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("marking notifications read: %w", err)
	}

	s.logger.Info("notifications marked read", slog.String("userId", userID))
	return nil
}
