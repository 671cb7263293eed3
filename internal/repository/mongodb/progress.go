package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/learnhub/internal/model"
)

func (s *Store) CreateProgress(ctx context.Context, p *model.LearningProgress) error {
	p.ID = xid.New().String()
	if p.Likes == nil {
		p.Likes = []model.Like{}
	}
	if p.Comments == nil {
		p.Comments = []model.Comment{}
	}
	if _, err := s.progress.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("mongodb: inserting learning progress: %w", err)
	}
	return nil
}

func (s *Store) GetProgress(ctx context.Context, id string) (*model.LearningProgress, error) {
	var p model.LearningProgress
	if err := findOne(ctx, s.progress, "learning progress", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProgress sorts newest first; _id breaks ties between entries created
// in the same millisecond (BSON dates have millisecond precision).
func (s *Store) ListProgress(ctx context.Context) ([]model.LearningProgress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[model.LearningProgress](ctx, s.progress, "learning progress", bson.D{}, opts)
}

func (s *Store) ListProgressByUser(ctx context.Context, userID string) ([]model.LearningProgress, error) {
	return findAll[model.LearningProgress](ctx, s.progress, "learning progress", bson.M{"userId": userID}, insertionOrder())
}

func (s *Store) UpdateProgress(ctx context.Context, p *model.LearningProgress) error {
	return replaceOne(ctx, s.progress, "learning progress", p.ID, p)
}

func (s *Store) DeleteProgress(ctx context.Context, id string) error {
	return deleteOne(ctx, s.progress, "learning progress", id)
}
