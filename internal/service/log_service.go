package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrLogNotFound = errors.New("exercise log not found")
)

// LogInput carries the writable fields for log creation.
type LogInput struct {
	SessionID         primitive.ObjectID
	ExerciseID        primitive.ObjectID
	SetNumber         int
	Reps              *int
	Weight            *float64
	Duration          *int
	Distance          *float64
	Notes             string
	PerceivedExertion *int
}

// LogUpdate carries the optional fields of an update; nil leaves the field
// unchanged. The session association is fixed at creation.
type LogUpdate struct {
	ExerciseID        *primitive.ObjectID
	SetNumber         *int
	Reps              *int
	Weight            *float64
	Duration          *int
	Distance          *float64
	Notes             *string
	PerceivedExertion *int
}

// --- Service Interface ---
type LogService interface {
	List(ctx context.Context, actor *domain.User, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error)
	GetByID(ctx context.Context, actor *domain.User, logID primitive.ObjectID) (*domain.ExerciseLog, error)
	Create(ctx context.Context, actor *domain.User, input LogInput) (*domain.ExerciseLog, error)
	Update(ctx context.Context, actor *domain.User, logID primitive.ObjectID, update LogUpdate) (*domain.ExerciseLog, error)
	Delete(ctx context.Context, actor *domain.User, logID primitive.ObjectID) error
}

// --- Service Implementation ---

type logService struct {
	logRepo      repository.LogRepository
	sessionRepo  repository.SessionRepository
	exerciseRepo repository.ExerciseRepository
	access       *AccessPolicy
}

// NewLogService creates a new instance of logService.
func NewLogService(
	logRepo repository.LogRepository,
	sessionRepo repository.SessionRepository,
	exerciseRepo repository.ExerciseRepository,
	access *AccessPolicy,
) LogService {
	return &logService{
		logRepo:      logRepo,
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		access:       access,
	}
}

// List returns a page of logs belonging to the actor's own sessions. Logs
// are scoped by collecting the actor's session IDs first, so a session or
// exercise filter pointing at someone else's data yields an empty page
// rather than an error.
func (s *logService) List(ctx context.Context, actor *domain.User, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
	if actor == nil {
		return nil, 0, ErrAuthRequired
	}
	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, 0, err
	}

	sessionIDs, err := s.sessionRepo.GetIDsByProfileID(ctx, profile.ID)
	if err != nil {
		return nil, 0, err
	}
	if len(sessionIDs) == 0 {
		return []domain.ExerciseLog{}, 0, nil
	}
	if filter.SessionID != nil && !containsObjectID(sessionIDs, *filter.SessionID) {
		return []domain.ExerciseLog{}, 0, nil
	}
	filter.SessionIDs = sessionIDs

	return s.logRepo.List(ctx, filter)
}

func containsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// GetByID retrieves a log, owner only (ownership runs through the session).
func (s *logService) GetByID(ctx context.Context, actor *domain.User, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	log, err := s.getOwned(ctx, actor, logID)
	return log, err
}

// Create records a set against one of the actor's sessions. Logging
// against another user's session is denied, not hidden: the session is
// resolvable by ID, the actor just may not write to it.
func (s *logService) Create(ctx context.Context, actor *domain.User, input LogInput) (*domain.ExerciseLog, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}
	if err := validateLogValues(input.SetNumber, input.Weight, input.Duration, input.Distance, input.PerceivedExertion); err != nil {
		return nil, err
	}
	if _, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: exercise not found", ErrValidationFailed)
		}
		return nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireSessionOwner(ctx, profile, input.SessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: session not found", ErrValidationFailed)
		}
		return nil, err
	}

	log := &domain.ExerciseLog{
		SessionID:         input.SessionID,
		ExerciseID:        input.ExerciseID,
		SetNumber:         input.SetNumber,
		Reps:              input.Reps,
		Weight:            input.Weight,
		Duration:          input.Duration,
		Distance:          input.Distance,
		Notes:             input.Notes,
		PerceivedExertion: input.PerceivedExertion,
	}

	logID, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	return s.logRepo.GetByID(ctx, logID)
}

// Update applies an owner-only update to a log.
func (s *logService) Update(ctx context.Context, actor *domain.User, logID primitive.ObjectID, update LogUpdate) (*domain.ExerciseLog, error) {
	log, err := s.getOwned(ctx, actor, logID)
	if err != nil {
		return nil, err
	}

	if update.ExerciseID != nil {
		if _, err := s.exerciseRepo.GetByID(ctx, *update.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: exercise not found", ErrValidationFailed)
			}
			return nil, err
		}
		log.ExerciseID = *update.ExerciseID
	}
	if update.SetNumber != nil {
		log.SetNumber = *update.SetNumber
	}
	if update.Reps != nil {
		log.Reps = update.Reps
	}
	if update.Weight != nil {
		log.Weight = update.Weight
	}
	if update.Duration != nil {
		log.Duration = update.Duration
	}
	if update.Distance != nil {
		log.Distance = update.Distance
	}
	if update.Notes != nil {
		log.Notes = *update.Notes
	}
	if update.PerceivedExertion != nil {
		log.PerceivedExertion = update.PerceivedExertion
	}

	if err := validateLogValues(log.SetNumber, log.Weight, log.Duration, log.Distance, log.PerceivedExertion); err != nil {
		return nil, err
	}

	if err := s.logRepo.Update(ctx, log); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return log, nil
}

// Delete removes a log, owner only.
func (s *logService) Delete(ctx context.Context, actor *domain.User, logID primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, actor, logID); err != nil {
		return err
	}
	if err := s.logRepo.Delete(ctx, logID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return err
	}
	return nil
}

func (s *logService) getOwned(ctx context.Context, actor *domain.User, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}

	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireSessionOwner(ctx, profile, log.SessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Orphaned log; treat as inaccessible rather than leaking it.
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return log, nil
}

func validateLogValues(setNumber int, weight *float64, duration *int, distance *float64, exertion *int) error {
	if setNumber < 1 {
		return fmt.Errorf("%w: set_number must be positive", ErrValidationFailed)
	}
	if weight != nil && *weight < 0 {
		return fmt.Errorf("%w: weight cannot be negative", ErrValidationFailed)
	}
	if duration != nil && *duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrValidationFailed)
	}
	if distance != nil && *distance < 0 {
		return fmt.Errorf("%w: distance cannot be negative", ErrValidationFailed)
	}
	if exertion != nil && (*exertion < 1 || *exertion > 10) {
		return fmt.Errorf("%w: perceived_exertion must be between 1 and 10", ErrValidationFailed)
	}
	return nil
}
