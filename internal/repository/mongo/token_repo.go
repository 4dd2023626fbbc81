package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

const tokenCollectionName = "auth_tokens"

// mongoTokenRepository implements repository.TokenRepository
type mongoTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoTokenRepository creates a new token repository backed by MongoDB.
func NewMongoTokenRepository(db *mongo.Database) repository.TokenRepository {
	return &mongoTokenRepository{
		collection: db.Collection(tokenCollectionName),
	}
}

// Create inserts a new auth token.
func (r *mongoTokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	if token.Key == "" || token.UserID == primitive.NilObjectID {
		return errors.New("token key and user ID are required")
	}

	token.ID = primitive.NewObjectID()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByKey resolves an opaque token value to its record.
func (r *mongoTokenRepository) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	var token domain.AuthToken
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// DeleteByKey revokes a single token (logout).
func (r *mongoTokenRepository) DeleteByKey(ctx context.Context, key string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByUserID revokes every token for a user (password change).
func (r *mongoTokenRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// EnsureTokenIndexes creates necessary indexes for the auth_tokens collection.
func EnsureTokenIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Expired tokens are reaped by Mongo itself.
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
