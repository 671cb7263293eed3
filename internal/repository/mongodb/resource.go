package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/learnhub/internal/model"
)

func (s *Store) CreateResource(ctx context.Context, resource *model.Resource) error {
	resource.ID = xid.New().String()
	if _, err := s.resources.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("mongodb: inserting resource: %w", err)
	}
	return nil
}

func (s *Store) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	var r model.Resource
	if err := findOne(ctx, s.resources, "resource", id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListResources(ctx context.Context) ([]model.Resource, error) {
	return findAll[model.Resource](ctx, s.resources, "resources", bson.D{}, insertionOrder())
}

func (s *Store) ListResourcesByUser(ctx context.Context, userID string) ([]model.Resource, error) {
	return findAll[model.Resource](ctx, s.resources, "resources", bson.M{"userId": userID}, insertionOrder())
}

// SearchResourcesByTitle uses a case-insensitive regex on the quoted query,
// so regex metacharacters in the query match literally.
func (s *Store) SearchResourcesByTitle(ctx context.Context, query string) ([]model.Resource, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	return findAll[model.Resource](ctx, s.resources, "resources", filter, insertionOrder())
}

func (s *Store) UpdateResource(ctx context.Context, resource *model.Resource) error {
	return replaceOne(ctx, s.resources, "resource", resource.ID, resource)
}

func (s *Store) DeleteResource(ctx context.Context, id string) error {
	return deleteOne(ctx, s.resources, "resource", id)
}
