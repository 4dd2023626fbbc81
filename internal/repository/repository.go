package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseFilter narrows and pages catalog listings.
type ExerciseFilter struct {
	Category    string
	Difficulty  string
	MuscleGroup string
	Search      string // Case-insensitive name substring
	Ordering    string // "field" or "-field"; repo whitelists the fields
	Page        int    // 1-based
	PageSize    int
}

// WorkoutFilter narrows and pages workout listings. Visibility is part of
// the filter: the result set is public workouts plus the viewer's own;
// a nil ViewerID (anonymous) sees public workouts only.
type WorkoutFilter struct {
	ViewerID   *primitive.ObjectID
	Difficulty string
	Tags       []string // Any-of match
	Search     string   // Case-insensitive title substring
	Ordering   string
	Page       int
	PageSize   int
}

// SessionFilter narrows and pages session listings for one profile.
type SessionFilter struct {
	ProfileID primitive.ObjectID
	Status    string
	DateFrom  *time.Time // On createdAt
	DateTo    *time.Time
	Ordering  string
	Page      int
	PageSize  int
}

// LogFilter narrows and pages exercise-log listings. SessionIDs is the set
// of sessions the caller owns; SessionID/ExerciseID narrow further.
type LogFilter struct {
	SessionIDs []primitive.ObjectID
	SessionID  *primitive.ObjectID
	ExerciseID *primitive.ObjectID
	Ordering   string
	Page       int
	PageSize   int
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TokenRepository stores opaque bearer tokens so they can be revoked.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.AuthToken) error
	GetByKey(ctx context.Context, key string) (*domain.AuthToken, error)
	DeleteByKey(ctx context.Context, key string) error
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}

// ProfileRepository defines the interface for interacting with profile data.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

// ExerciseRepository defines the interface for interacting with the catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, int64, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, int64, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionRepository defines the interface for interacting with session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	List(ctx context.Context, filter SessionFilter) ([]domain.WorkoutSession, int64, error)
	GetIDsByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetIDsByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// LogRepository defines the interface for interacting with exercise logs.
type LogRepository interface {
	Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	List(ctx context.Context, filter LogFilter) ([]domain.ExerciseLog, int64, error)
	Update(ctx context.Context, log *domain.ExerciseLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBySessionIDs(ctx context.Context, sessionIDs []primitive.ObjectID) error
}
