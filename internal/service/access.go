package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrAccessDenied  = errors.New("access denied")
	ErrAdminRequired = errors.New("administrator privileges required")
)

// AccessPolicy is the cross-cutting authorization layer. Reads are always
// permitted; writes require either ownership (resolved through the Ownable
// capability, or transitively through a session for exercise logs) or the
// administrator flag, depending on the entity. Objects that do not implement
// Ownable are denied writes (fail-closed).
type AccessPolicy struct {
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
}

// NewAccessPolicy creates a new AccessPolicy.
func NewAccessPolicy(profileRepo repository.ProfileRepository, sessionRepo repository.SessionRepository) *AccessPolicy {
	return &AccessPolicy{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
	}
}

// EnsureProfile returns the profile for a user, creating it on first touch.
// It is idempotent: a concurrent create losing the unique-index race falls
// back to fetching the winner's document. Every ownership check goes through
// a profile obtained here.
func (p *AccessPolicy) EnsureProfile(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	profile, err := p.profileRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile = &domain.Profile{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FitnessGoal: domain.GoalGeneral,
	}
	profileID, err := p.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return p.profileRepo.GetByUserID(ctx, user.ID)
		}
		return nil, err
	}
	profile.ID = profileID
	return profile, nil
}

// RequireOwner verifies that profile owns obj. The object must expose the
// Ownable capability; anything else is denied.
func (p *AccessPolicy) RequireOwner(profile *domain.Profile, obj interface{}) error {
	ownable, ok := obj.(domain.Ownable)
	if !ok {
		return ErrAccessDenied
	}
	if profile == nil || ownable.OwnerProfileID() != profile.ID {
		return ErrAccessDenied
	}
	return nil
}

// RequireSessionOwner resolves ownership transitively through a session:
// exercise logs carry no owner field of their own. Returns the session so
// callers do not fetch it twice. A missing session surfaces as
// repository.ErrNotFound for the caller to map.
func (p *AccessPolicy) RequireSessionOwner(ctx context.Context, profile *domain.Profile, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := p.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := p.RequireOwner(profile, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RequireAdmin enforces the admin-or-read-only rule for catalog writes.
func (p *AccessPolicy) RequireAdmin(user *domain.User) error {
	if user == nil || !user.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// CanView reports whether a profile may read a workout: public workouts are
// visible to everyone, private ones to their owner only.
func (p *AccessPolicy) CanView(profile *domain.Profile, workout *domain.Workout) bool {
	if workout.IsPublic {
		return true
	}
	return profile != nil && workout.CreatorID == profile.ID
}
