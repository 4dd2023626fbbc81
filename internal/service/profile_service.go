package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// ProfileUpdate carries the optional profile fields of a PUT/PATCH profile
// request; nil means "leave unchanged".
type ProfileUpdate struct {
	Height      *int
	Weight      *float64
	DateOfBirth *time.Time
	FitnessGoal *domain.FitnessGoal
}

// --- Service Interface ---
type ProfileService interface {
	GetOrCreate(ctx context.Context, user *domain.User) (*domain.Profile, error)
	UpdateUser(ctx context.Context, user *domain.User, firstName, lastName, email *string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User, update ProfileUpdate) (*domain.Profile, error)
}

// --- Service Implementation ---

type profileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	access      *AccessPolicy
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, access *AccessPolicy) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		access:      access,
	}
}

// GetOrCreate returns the user's profile, creating it lazily on first touch.
func (s *profileService) GetOrCreate(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	return s.access.EnsureProfile(ctx, user)
}

// UpdateUser applies the account-level fields of a profile update. A changed
// email must not collide with another account.
func (s *profileService) UpdateUser(ctx context.Context, user *domain.User, firstName, lastName, email *string) (*domain.User, error) {
	stored, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if firstName != nil {
		stored.FirstName = *firstName
	}
	if lastName != nil {
		stored.LastName = *lastName
	}
	if email != nil && *email != stored.Email {
		existing, err := s.userRepo.GetByEmail(ctx, *email)
		if err == nil && existing.ID != stored.ID {
			return nil, ErrEmailTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		stored.Email = *email
	}

	if err := s.userRepo.Update(ctx, stored); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	stored.PasswordHash = ""
	return stored, nil
}

// UpdateProfile applies the fitness fields of a profile update, creating the
// profile first if the user never had one. The profile email is kept in sync
// with the account email.
func (s *profileService) UpdateProfile(ctx context.Context, user *domain.User, update ProfileUpdate) (*domain.Profile, error) {
	if update.FitnessGoal != nil && !domain.ValidFitnessGoal(*update.FitnessGoal) {
		return nil, fmt.Errorf("%w: unknown fitness goal %q", ErrValidationFailed, *update.FitnessGoal)
	}

	profile, err := s.access.EnsureProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	if update.Height != nil {
		profile.Height = update.Height
	}
	if update.Weight != nil {
		profile.Weight = update.Weight
	}
	if update.DateOfBirth != nil {
		profile.DateOfBirth = update.DateOfBirth
	}
	if update.FitnessGoal != nil {
		profile.FitnessGoal = *update.FitnessGoal
	}
	profile.Email = user.Email

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
