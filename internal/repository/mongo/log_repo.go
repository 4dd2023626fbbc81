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

const logCollectionName = "exercise_logs"

var logOrderings = map[string]string{
	"set_number": "setNumber",
	"created_at": "createdAt",
}

// mongoLogRepository implements repository.LogRepository
type mongoLogRepository struct {
	collection *mongo.Collection
}

// NewMongoLogRepository creates a new ExerciseLog repository backed by MongoDB.
func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{
		collection: db.Collection(logCollectionName),
	}
}

// Create inserts a new exercise log.
func (r *mongoLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if log.SessionID == primitive.NilObjectID || log.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("log requires sessionId and exerciseId")
	}

	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single log by its ID.
func (r *mongoLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// List returns a page of logs restricted to the caller's sessions.
func (r *mongoLogRepository) List(ctx context.Context, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
	// The session equality narrows within the ownership scope; it must
	// never replace the $in over the caller's sessions.
	conditions := []bson.M{{"sessionId": bson.M{"$in": filter.SessionIDs}}}
	if filter.SessionID != nil {
		conditions = append(conditions, bson.M{"sessionId": *filter.SessionID})
	}
	if filter.ExerciseID != nil {
		conditions = append(conditions, bson.M{"exerciseId": *filter.ExerciseID})
	}
	query := bson.M{"$and": conditions}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(sortFromOrdering(filter.Ordering, logOrderings, bson.D{{Key: "createdAt", Value: -1}}))
	applyPaging(findOptions, filter.Page, filter.PageSize, defaultLogPageSize)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var logs []domain.ExerciseLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	if err = cursor.Err(); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Update rewrites the mutable log fields. SessionID and ExerciseID are fixed
// at creation.
func (r *mongoLogRepository) Update(ctx context.Context, log *domain.ExerciseLog) error {
	if log.ID == primitive.NilObjectID {
		return errors.New("log ID is required for update")
	}

	filter := bson.M{"_id": log.ID}
	update := bson.M{
		"$set": bson.M{
			"setNumber":         log.SetNumber,
			"reps":              log.Reps,
			"weight":            log.Weight,
			"duration":          log.Duration,
			"distance":          log.Distance,
			"notes":             log.Notes,
			"perceivedExertion": log.PerceivedExertion,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single log.
func (r *mongoLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBySessionIDs removes every log attached to the given sessions.
// Used for cascading deletes of sessions and workouts.
func (r *mongoLogRepository) DeleteBySessionIDs(ctx context.Context, sessionIDs []primitive.ObjectID) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": bson.M{"$in": sessionIDs}})
	return err
}

// EnsureLogIndexes creates necessary indexes. Call during startup.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
