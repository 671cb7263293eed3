package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/notify"
	"github.com/sakif/learnhub/internal/repository"
)

// ProgressFields carries the fields of a learning progress entry. UserID and
// UserName are only read by Create.
type ProgressFields struct {
	UserID        string
	UserName      string
	Title         string
	Description   string
	TemplateType  model.TemplateType
	Status        string
	TutorialName  string
	ProjectName   string
	SkillsLearned string
	Challenges    string
	NextSteps     string
}

// CommentInput is a new comment on an entry.
type CommentInput struct {
	UserID   string
	UserName string
	Content  string
}

// ProgressService handles learning progress entries and their comments and likes.
//
// Comment and like notifications go to the entry owner through sink, only
// after the entry has been saved, and never when the owner acts on their
// own entry.
type ProgressService struct {
	repo   repository.ProgressRepository
	sink   notify.Sink
	logger *slog.Logger
	now    Clock
}

func NewProgressService(repo repository.ProgressRepository, sink notify.Sink, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		repo:   repo,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates and saves a new entry with no likes or comments.
func (s *ProgressService) Create(ctx context.Context, f ProgressFields) (*model.LearningProgress, error) {
	f = trimProgressFields(f)

	userID, err := required("userId", f.UserID)
	if err != nil {
		return nil, err
	}
	if err := checkTemplateFields(f); err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(f.UserName)
	if userName == "" {
		userName = model.DefaultUserName
	}

	now := s.now()
	entry := &model.LearningProgress{
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
		UpdatedAt: now,
		Likes:     []model.Like{},
		Comments:  []model.Comment{},
	}
	applyProgressFields(entry, f)

	if err := s.repo.CreateProgress(ctx, entry); err != nil {
		s.logger.Error("failed to create learning progress",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating learning progress: %w", err)
	}

	s.logger.Info("learning progress created",
		slog.String("id", entry.ID),
		slog.String("userId", userID),
		slog.String("templateType", string(entry.TemplateType)),
	)
	return entry, nil
}

// checkTemplateFields enforces the required-field set of f.TemplateType.
func checkTemplateFields(f ProgressFields) error {
	switch f.TemplateType {
	case model.TemplateGeneral:
		if f.Title == "" || f.Description == "" {
			return apperror.ValidationFailed(firstMissing("title", f.Title, "description"),
				"title and description are required for general template")
		}
	case model.TemplateTutorial:
		if f.Title == "" || f.TutorialName == "" {
			return apperror.ValidationFailed(firstMissing("title", f.Title, "tutorialName"),
				"title and tutorial name are required for tutorial template")
		}
	case model.TemplateProject:
		if f.Title == "" || f.ProjectName == "" {
			return apperror.ValidationFailed(firstMissing("title", f.Title, "projectName"),
				"title and project name are required for project template")
		}
	case "":
		return apperror.ValidationFailed("templateType", "templateType is required")
	default:
		return apperror.ValidationFailed("templateType",
			fmt.Sprintf("invalid template type %q: must be one of %v", f.TemplateType, model.TemplateTypes))
	}
	return nil
}

// firstMissing names field when value is empty, otherwise fallback.
func firstMissing(field, value, fallback string) string {
	if value == "" {
		return field
	}
	return fallback
}

// List returns every entry, newest first.
func (s *ProgressService) List(ctx context.Context) ([]model.LearningProgress, error) {
	entries, err := s.repo.ListProgress(ctx)
	if err != nil {
		s.logger.Error("failed to list learning progress", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing learning progress: %w", err)
	}
	return entries, nil
}

func (s *ProgressService) GetByID(ctx context.Context, id string) (*model.LearningProgress, error) {
	id, err := required("id", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetProgress(ctx, id)
}

func (s *ProgressService) ListByUser(ctx context.Context, userID string) ([]model.LearningProgress, error) {
	entries, err := s.repo.ListProgressByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list learning progress by user",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing learning progress for %s: %w", userID, err)
	}
	return entries, nil
}

// Update overwrites the content fields of an entry. An empty TemplateType
// keeps the current one.
//
// Entries are publicly editable: requesterID is optional, and only when it
// is set must it match the owner.
func (s *ProgressService) Update(ctx context.Context, id, requesterID string, f ProgressFields) (*model.LearningProgress, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requesterID != "" {
		if err := checkOwner("learning progress", entry.UserID, requesterID); err != nil {
			return nil, err
		}
	}

	f = trimProgressFields(f)
	if f.TemplateType == "" {
		f.TemplateType = entry.TemplateType
	} else if !f.TemplateType.Valid() {
		return nil, apperror.ValidationFailed("templateType",
			fmt.Sprintf("invalid template type %q: must be one of %v", f.TemplateType, model.TemplateTypes))
	}

	applyProgressFields(entry, f)
	entry.UpdatedAt = s.now()

	if err := s.save(ctx, entry, "update"); err != nil {
		return nil, err
	}
	s.logger.Info("learning progress updated", slog.String("id", entry.ID))
	return entry, nil
}

// Delete removes an entry. requesterID follows the same rule as in Update.
func (s *ProgressService) Delete(ctx context.Context, id, requesterID string) error {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if requesterID != "" {
		if err := checkOwner("learning progress", entry.UserID, requesterID); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteProgress(ctx, entry.ID); err != nil {
		return fmt.Errorf("deleting learning progress: %w", err)
	}

	s.logger.Info("learning progress deleted", slog.String("id", entry.ID))
	return nil
}

// === COMMENTS ===

// AddComment appends a comment and notifies the entry owner when someone
// else wrote it.
func (s *ProgressService) AddComment(ctx context.Context, entryID string, in CommentInput) (*model.LearningProgress, error) {
	entry, err := s.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	userID, err := required("userId", in.UserID)
	if err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		userName = model.DefaultUserName
	}

	now := s.now()
	entry.Comments = append(entry.Comments, model.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  userName,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err := s.save(ctx, entry, "add comment"); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("entryId", entry.ID),
		slog.String("userId", userID),
	)

	if userID != entry.UserID {
		s.sink.Notify(ctx, notify.Event{
			Kind:            model.NotificationComment,
			EntryID:         entry.ID,
			RecipientUserID: entry.UserID,
			ActorUserID:     userID,
			Content:         in.Content,
		})
	}
	return entry, nil
}

// UpdateComment replaces a comment's content. An unknown commentID is not
// an error; the entry is returned unchanged.
func (s *ProgressService) UpdateComment(ctx context.Context, entryID, commentID, content string) (*model.LearningProgress, error) {
	entry, err := s.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if c := entry.Comment(commentID); c != nil {
		c.Content = content
		c.UpdatedAt = s.now()
	}

	if err := s.save(ctx, entry, "update comment"); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteComment removes a comment if requesterID wrote it or owns the entry.
// Any other requester leaves the comments untouched.
func (s *ProgressService) DeleteComment(ctx context.Context, entryID, commentID, requesterID string) (*model.LearningProgress, error) {
	entry, err := s.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	before := len(entry.Comments)
	entry.Comments = slices.DeleteFunc(entry.Comments, func(c model.Comment) bool {
		return c.ID == commentID && (requesterID == c.UserID || requesterID == entry.UserID)
	})

	if err := s.save(ctx, entry, "delete comment"); err != nil {
		return nil, err
	}

	if len(entry.Comments) < before {
		s.logger.Info("comment deleted",
			slog.String("entryId", entry.ID),
			slog.String("commentId", commentID),
		)
	}
	return entry, nil
}

// === LIKES ===

// AddLike records a like by userID. Liking twice is a no-op: the entry is
// returned as stored, without a write or a second notification.
func (s *ProgressService) AddLike(ctx context.Context, entryID, userID string) (*model.LearningProgress, error) {
	entry, err := s.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	userID, err = required("userId", userID)
	if err != nil {
		return nil, err
	}

	if entry.LikedBy(userID) {
		return entry, nil
	}

	entry.Likes = append(entry.Likes, model.Like{UserID: userID, CreatedAt: s.now()})
	if err := s.save(ctx, entry, "add like"); err != nil {
		return nil, err
	}

	s.logger.Info("like added",
		slog.String("entryId", entry.ID),
		slog.String("userId", userID),
	)

	if userID != entry.UserID {
		s.sink.Notify(ctx, notify.Event{
			Kind:            model.NotificationLike,
			EntryID:         entry.ID,
			RecipientUserID: entry.UserID,
			ActorUserID:     userID,
		})
	}
	return entry, nil
}

// RemoveLike drops userID's like, if any.
func (s *ProgressService) RemoveLike(ctx context.Context, entryID, userID string) (*model.LearningProgress, error) {
	entry, err := s.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	entry.Likes = slices.DeleteFunc(entry.Likes, func(l model.Like) bool {
		return l.UserID == userID
	})

	if err := s.save(ctx, entry, "remove like"); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProgressService) save(ctx context.Context, entry *model.LearningProgress, op string) error {
	if err := s.repo.UpdateProgress(ctx, entry); err != nil {
		s.logger.Error("failed to save learning progress",
			slog.String("id", entry.ID),
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func trimProgressFields(f ProgressFields) ProgressFields {
	f.UserID = strings.TrimSpace(f.UserID)
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.TemplateType = model.TemplateType(strings.TrimSpace(string(f.TemplateType)))
	f.TutorialName = strings.TrimSpace(f.TutorialName)
	f.ProjectName = strings.TrimSpace(f.ProjectName)
	return f
}

func applyProgressFields(p *model.LearningProgress, f ProgressFields) {
	p.Title = f.Title
	p.Description = f.Description
	p.TemplateType = f.TemplateType
	p.Status = f.Status
	p.TutorialName = f.TutorialName
	p.ProjectName = f.ProjectName
	p.SkillsLearned = f.SkillsLearned
	p.Challenges = f.Challenges
	p.NextSteps = f.NextSteps
}
