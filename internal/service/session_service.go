package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound = errors.New("workout session not found")
)

// SessionInput carries the writable fields for session creation.
type SessionInput struct {
	WorkoutID     primitive.ObjectID
	Status        domain.SessionStatus // Defaults to planned
	ScheduledDate *time.Time
	Notes         string
}

// SessionUpdate carries the optional fields of an update; nil leaves the
// field unchanged. The owning profile and workout reference are not
// updatable: any such fields in a request are dropped before reaching here.
type SessionUpdate struct {
	Status        *domain.SessionStatus
	ScheduledDate *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	Notes         *string
}

// --- Service Interface ---
type SessionService interface {
	List(ctx context.Context, actor *domain.User, filter repository.SessionFilter) ([]domain.WorkoutSession, int64, error)
	GetByID(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Create(ctx context.Context, actor *domain.User, input SessionInput) (*domain.WorkoutSession, error)
	Update(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID, update SessionUpdate) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) error
	Start(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Complete(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
}

// --- Service Implementation ---

type sessionService struct {
	sessionRepo repository.SessionRepository
	workoutRepo repository.WorkoutRepository
	logRepo     repository.LogRepository
	access      *AccessPolicy
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	workoutRepo repository.WorkoutRepository,
	logRepo repository.LogRepository,
	access *AccessPolicy,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		workoutRepo: workoutRepo,
		logRepo:     logRepo,
		access:      access,
	}
}

// List returns a page of the actor's own sessions. Other users' sessions
// are never visible.
func (s *sessionService) List(ctx context.Context, actor *domain.User, filter repository.SessionFilter) ([]domain.WorkoutSession, int64, error) {
	if actor == nil {
		return nil, 0, ErrAuthRequired
	}
	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	filter.ProfileID = profile.ID
	return s.sessionRepo.List(ctx, filter)
}

// GetByID retrieves a session, owner only.
func (s *sessionService) GetByID(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, _, err := s.getOwned(ctx, actor, sessionID)
	return session, err
}

// Create builds a new session for the actor's profile (created lazily),
// referencing an existing workout. Status defaults to planned.
func (s *sessionService) Create(ctx context.Context, actor *domain.User, input SessionInput) (*domain.WorkoutSession, error) {
	if actor == nil {
		return nil, ErrAuthRequired
	}
	if input.Status != "" && !domain.ValidSessionStatus(input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, input.Status)
	}

	if _, err := s.workoutRepo.GetByID(ctx, input.WorkoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: workout not found", ErrValidationFailed)
		}
		return nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	session := &domain.WorkoutSession{
		UserID:        profile.ID,
		WorkoutID:     input.WorkoutID,
		Status:        input.Status,
		ScheduledDate: input.ScheduledDate,
		Notes:         input.Notes,
	}
	if session.Status == "" {
		session.Status = domain.SessionPlanned
	}

	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// Update applies an owner-only update. The user and workout associations
// never change here regardless of what the request carried.
func (s *sessionService) Update(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID, update SessionUpdate) (*domain.WorkoutSession, error) {
	session, _, err := s.getOwned(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if !domain.ValidSessionStatus(*update.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *update.Status)
		}
		session.Status = *update.Status
	}
	if update.ScheduledDate != nil {
		session.ScheduledDate = update.ScheduledDate
	}
	if update.StartedAt != nil {
		session.StartedAt = update.StartedAt
	}
	if update.CompletedAt != nil {
		session.CompletedAt = update.CompletedAt
	}
	if update.Notes != nil {
		session.Notes = *update.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// Delete removes a session (owner only) together with its logs.
func (s *sessionService) Delete(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) error {
	if _, _, err := s.getOwned(ctx, actor, sessionID); err != nil {
		return err
	}

	if err := s.logRepo.DeleteBySessionIDs(ctx, []primitive.ObjectID{sessionID}); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Start marks the session in progress, stamping StartedAt with the current
// time. There is deliberately no guard on the prior status.
func (s *sessionService) Start(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.transition(ctx, actor, sessionID, (*domain.WorkoutSession).Start)
}

// Complete marks the session completed, stamping CompletedAt. Like Start,
// it succeeds from any prior status.
func (s *sessionService) Complete(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.transition(ctx, actor, sessionID, (*domain.WorkoutSession).Complete)
}

func (s *sessionService) transition(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID, apply func(*domain.WorkoutSession, time.Time)) (*domain.WorkoutSession, error) {
	session, _, err := s.getOwned(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}

	apply(session, time.Now().UTC())

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// getOwned fetches a session and verifies ownership, existence first.
func (s *sessionService) getOwned(ctx context.Context, actor *domain.User, sessionID primitive.ObjectID) (*domain.WorkoutSession, *domain.Profile, error) {
	if actor == nil {
		return nil, nil, ErrAuthRequired
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}

	profile, err := s.access.EnsureProfile(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	if err := s.access.RequireOwner(profile, session); err != nil {
		return nil, nil, err
	}
	return session, profile, nil
}
