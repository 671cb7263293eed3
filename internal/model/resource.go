package model

// Resource is a shared link or article.
type Resource struct {
	ID          string `bson:"_id"`
	UserID      string `bson:"userId"` // owner
	Title       string `bson:"title"`
	Description string `bson:"description"`
	URL         string `bson:"url"`
	CreatedAt   int64  `bson:"createdAt"` // epoch millis
	UpdatedAt   int64  `bson:"updatedAt"`
}
