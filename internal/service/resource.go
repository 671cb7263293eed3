package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/repository"
)

// ResourceFields are the owner-editable fields of a resource.
type ResourceFields struct {
	Title       string
	Description string
	URL         string
}

// ResourceService handles shared links and articles.
type ResourceService struct {
	repo   repository.ResourceRepository
	logger *slog.Logger
	now    Clock
}

func NewResourceService(repo repository.ResourceRepository, logger *slog.Logger) *ResourceService {
	return &ResourceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ResourceService) Create(ctx context.Context, ownerID string, f ResourceFields) (*model.Resource, error) {
	ownerID, err := required("userId", ownerID)
	if err != nil {
		return nil, err
	}

	now := model.EpochMillis(s.now())
	resource := &model.Resource{
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyResourceFields(resource, f)

	if err := s.repo.CreateResource(ctx, resource); err != nil {
		s.logger.Error("failed to create resource",
			slog.String("userId", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	s.logger.Info("resource created",
		slog.String("id", resource.ID),
		slog.String("userId", ownerID),
	)
	return resource, nil
}

func (s *ResourceService) List(ctx context.Context) ([]model.Resource, error) {
	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		s.logger.Error("failed to list resources", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	return resources, nil
}

func (s *ResourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	id, err := required("id", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetResource(ctx, id)
}

func (s *ResourceService) ListByUser(ctx context.Context, userID string) ([]model.Resource, error) {
	resources, err := s.repo.ListResourcesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list resources by user",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing resources for %s: %w", userID, err)
	}
	return resources, nil
}

// SearchByTitle returns resources whose title contains query, ignoring case.
// A blank query returns every resource.
func (s *ResourceService) SearchByTitle(ctx context.Context, query string) ([]model.Resource, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	resources, err := s.repo.SearchResourcesByTitle(ctx, query)
	if err != nil {
		s.logger.Error("failed to search resources",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("searching resources: %w", err)
	}
	return resources, nil
}

func (s *ResourceService) Update(ctx context.Context, id, requesterID string, f ResourceFields) (*model.Resource, error) {
	resource, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner("resource", resource.UserID, requesterID); err != nil {
		return nil, err
	}

	applyResourceFields(resource, f)
	resource.UpdatedAt = model.EpochMillis(s.now())

	if err := s.repo.UpdateResource(ctx, resource); err != nil {
		s.logger.Error("failed to update resource",
			slog.String("id", resource.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating resource: %w", err)
	}

	s.logger.Info("resource updated", slog.String("id", resource.ID))
	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, id, requesterID string) error {
	resource, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner("resource", resource.UserID, requesterID); err != nil {
		return err
	}

	if err := s.repo.DeleteResource(ctx, resource.ID); err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}

	s.logger.Info("resource deleted", slog.String("id", resource.ID))
	return nil
}

func applyResourceFields(r *model.Resource, f ResourceFields) {
	r.Title = strings.TrimSpace(f.Title)
	r.Description = strings.TrimSpace(f.Description)
	r.URL = strings.TrimSpace(f.URL)
}
