package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/socialhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository defines the post operations the comment subsystem needs
type PostRepository interface {
	IncrementCommentsCount(ctx context.Context, postID string) error
	DecrementCommentsCount(ctx context.Context, postID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCommentsCount(ctx, postID, bson.M{}, 1)
}

// DecrementCommentsCount decrements the comments count of a post, never below zero
func (r *MongoPostRepository) DecrementCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCommentsCount(ctx, postID, bson.M{"comments_count": bson.M{"$gt": 0}}, -1)
}

func (r *MongoPostRepository) adjustCommentsCount(ctx context.Context, postID string, filter bson.M, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	filter["_id"] = objID
	if _, err = r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"comments_count": delta}}); err != nil {
		return models.NewStorageError("post.adjust_comments_count", err)
	}
	return nil
}
