package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrAuthRequired    = errors.New("authentication required")
)

// WorkoutEntryInput is one validated entry of a create/update request.
type WorkoutEntryInput struct {
	ExerciseID primitive.ObjectID
	Order      int
	Sets       int
	Reps       *int
	Duration   *int
	RestPeriod int
	Notes      string
}

// WorkoutInput carries all writable fields for workout creation.
type WorkoutInput struct {
	Title             string
	Description       string
	Difficulty        domain.Difficulty
	IsPublic          bool
	EstimatedDuration *int // Derived from entries when nil
	Tags              []string
	Entries           []WorkoutEntryInput
}

// WorkoutUpdate carries the optional fields of an update; nil leaves the
// field unchanged. A non-nil Entries pointer fully replaces the entry list.
type WorkoutUpdate struct {
	Title             *string
	Description       *string
	Difficulty        *domain.Difficulty
	IsPublic          *bool
	EstimatedDuration *int
	Tags              *[]string
	Entries           *[]WorkoutEntryInput
}

// --- Service Interface ---
type WorkoutService interface {
	List(ctx context.Context, actor *domain.User, filter repository.WorkoutFilter) ([]domain.Workout, int64, error)
	GetByID(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) (*domain.Workout, error)
	Create(ctx context.Context, actor *domain.User, input WorkoutInput) (*domain.Workout, error)
	Update(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error)
	Delete(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) error
	Clone(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) (*domain.Workout, error)
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	sessionRepo  repository.SessionRepository
	logRepo      repository.LogRepository
	access       *AccessPolicy
	logger       *zap.Logger
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	sessionRepo repository.SessionRepository,
	logRepo repository.LogRepository,
	access *AccessPolicy,
	logger *zap.Logger,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		sessionRepo:  sessionRepo,
		logRepo:      logRepo,
		access:       access,
		logger:       logger,
	}
}

// List returns the workouts visible to the actor: all public ones plus the
// actor's own. Anonymous actors see public workouts only.
func (s *workoutService) List(ctx context.Context, actor *domain.User, filter repository.WorkoutFilter) ([]domain.Workout, int64, error) {
	if actor != nil {
		profile, err := s.access.EnsureProfile(ctx, actor)
		if err != nil {
			return nil, 0, err
		}
		filter.ViewerID = &profile.ID
	}
	return s.workoutRepo.List(ctx, filter)
}

// GetByID retrieves a workout, enforcing visibility: a private workout is
// readable only by its owner. Existence is checked before authorization, so
// a missing workout is NotFound for everyone.
func (s *workoutService) GetByID(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if !workout.IsPublic {
		if actor == nil {
			return nil, ErrAuthRequired
		}
		profile, err := s.access.EnsureProfile(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !s.access.CanView(profile, workout) {
			return nil, ErrAccessDenied
		}
	}
	return workout, nil
}

// Create builds a new workout owned by the actor's profile (created lazily).
// Entries are validated one by one; the estimated duration is derived from
// them unless supplied explicitly.
func (s *workoutService) Create(ctx context.Context, actor *domain.User, input WorkoutInput) (*domain.Workout, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if !domain.ValidDifficulty(input.Difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidationFailed, input.Difficulty)
	}

	entries, err := s.validateEntries(ctx, input.Entries)
	if err != nil {
		return nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		CreatorID:   profile.ID,
		Title:       input.Title,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		Difficulty:  input.Difficulty,
		Tags:        input.Tags,
		Entries:     entries,
	}
	if input.EstimatedDuration != nil {
		workout.EstimatedDuration = input.EstimatedDuration
	} else if len(entries) > 0 {
		derived := workout.CalculateEstimatedDuration()
		workout.EstimatedDuration = &derived
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return s.workoutRepo.GetByID(ctx, workoutID)
}

// Update applies an owner-only update. A supplied entry list replaces the
// existing entries entirely; no per-entry identity survives the update.
func (s *workoutService) Update(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error) {
	workout, _, err := s.getOwned(ctx, actor, workoutID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
		}
		workout.Title = *update.Title
	}
	if update.Description != nil {
		workout.Description = *update.Description
	}
	if update.Difficulty != nil {
		if !domain.ValidDifficulty(*update.Difficulty) {
			return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidationFailed, *update.Difficulty)
		}
		workout.Difficulty = *update.Difficulty
	}
	if update.IsPublic != nil {
		workout.IsPublic = *update.IsPublic
	}
	if update.Tags != nil {
		workout.Tags = *update.Tags
	}
	if update.Entries != nil {
		entries, err := s.validateEntries(ctx, *update.Entries)
		if err != nil {
			return nil, err
		}
		workout.Entries = entries
	}
	if update.EstimatedDuration != nil {
		workout.EstimatedDuration = update.EstimatedDuration
	} else if update.Entries != nil {
		derived := workout.CalculateEstimatedDuration()
		workout.EstimatedDuration = &derived
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// Delete removes a workout (owner only) and cascades to its sessions and
// their logs so no orphaned records survive.
func (s *workoutService) Delete(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) error {
	if _, _, err := s.getOwned(ctx, actor, workoutID); err != nil {
		return err
	}

	sessionIDs, err := s.sessionRepo.GetIDsByWorkoutID(ctx, workoutID)
	if err != nil {
		return err
	}
	if len(sessionIDs) > 0 {
		if err := s.logRepo.DeleteBySessionIDs(ctx, sessionIDs); err != nil {
			return err
		}
		if err := s.sessionRepo.DeleteByWorkoutID(ctx, workoutID); err != nil {
			return err
		}
		s.logger.Info("cascaded workout delete",
			zap.String("workoutId", workoutID.Hex()),
			zap.Int("sessions", len(sessionIDs)))
	}

	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// Clone copies a viewable workout into the actor's library. The copy is
// always private, owned by the actor, titled "<original> (Copy)", and reuses
// the original's exercise references by id.
func (s *workoutService) Clone(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) (*domain.Workout, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}

	original, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !s.access.CanView(profile, original) {
		return nil, ErrAccessDenied
	}

	clone := &domain.Workout{
		CreatorID:         profile.ID,
		Title:             original.Title + " (Copy)",
		Description:       original.Description,
		IsPublic:          false, // Clones start private regardless of the original
		EstimatedDuration: original.EstimatedDuration,
		Difficulty:        original.Difficulty,
		Tags:              append([]string(nil), original.Tags...),
		Entries:           append([]domain.WorkoutEntry(nil), original.Entries...),
	}

	cloneID, err := s.workoutRepo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	clone.ID = cloneID
	return s.workoutRepo.GetByID(ctx, cloneID)
}

// getOwned fetches a workout and verifies the actor owns it. Existence is
// checked first so missing workouts report NotFound rather than Forbidden.
func (s *workoutService) getOwned(ctx context.Context, actor *domain.User, workoutID primitive.ObjectID) (*domain.Workout, *domain.Profile, error) {
	if actor == nil {
		return nil, nil, ErrAuthRequired
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrWorkoutNotFound
		}
		return nil, nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	if err := s.access.RequireOwner(profile, workout); err != nil {
		return nil, nil, err
	}
	return workout, profile, nil
}

// validateEntries checks each entry of a create/update request: the exercise
// must resolve, order values must be unique within the workout, and set and
// timing values must be sane. Returns the domain entries ready to embed.
func (s *workoutService) validateEntries(ctx context.Context, inputs []WorkoutEntryInput) ([]domain.WorkoutEntry, error) {
	entries := make([]domain.WorkoutEntry, 0, len(inputs))
	seenOrders := make(map[int]bool, len(inputs))

	for i, input := range inputs {
		if _, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: entry %d: exercise not found", ErrValidationFailed, i)
			}
			return nil, err
		}
		if seenOrders[input.Order] {
			return nil, fmt.Errorf("%w: entry %d: duplicate order %d", ErrValidationFailed, i, input.Order)
		}
		seenOrders[input.Order] = true

		sets := input.Sets
		if sets == 0 {
			sets = 3
		}
		if sets < 1 {
			return nil, fmt.Errorf("%w: entry %d: sets must be at least 1", ErrValidationFailed, i)
		}
		rest := input.RestPeriod
		if rest < 0 {
			return nil, fmt.Errorf("%w: entry %d: rest period cannot be negative", ErrValidationFailed, i)
		}

		entries = append(entries, domain.WorkoutEntry{
			ExerciseID: input.ExerciseID,
			Order:      input.Order,
			Sets:       sets,
			Reps:       input.Reps,
			Duration:   input.Duration,
			RestPeriod: rest,
			Notes:      input.Notes,
		})
	}
	return entries, nil
}
