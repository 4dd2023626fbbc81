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
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrExerciseNameTaken = errors.New("exercise with this name already exists")
	ErrValidationFailed  = errors.New("validation failed")
)

// ExerciseInput carries all writable catalog fields for create and update.
type ExerciseInput struct {
	Name              string
	Description       string
	Category          domain.ExerciseCategory
	MuscleGroups      []string
	EquipmentRequired []string
	Difficulty        domain.Difficulty
	VideoURL          string
	ImageURL          string
	Instructions      []string
}

// --- Service Interface ---
type ExerciseService interface {
	List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error)
	GetByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	Create(ctx context.Context, actor *domain.User, input ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, actor *domain.User, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, actor *domain.User, exerciseID primitive.ObjectID) error
	SetMedia(ctx context.Context, actor *domain.User, exerciseID primitive.ObjectID, imageURL, videoURL string) (*domain.Exercise, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface. The catalog is
// world-readable; every write goes through the admin-or-read-only rule.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	access       *AccessPolicy
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, access *AccessPolicy) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		access:       access,
	}
}

// List returns a page of matching exercises with the total match count.
func (s *exerciseService) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	return s.exerciseRepo.List(ctx, filter)
}

// GetByID retrieves a single exercise. Reads need no authorization.
func (s *exerciseService) GetByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// Create adds a catalog entry (admin only).
func (s *exerciseService) Create(ctx context.Context, actor *domain.User, input ExerciseInput) (*domain.Exercise, error) {
	if err := s.access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	if _, err := s.exerciseRepo.GetByName(ctx, input.Name); err == nil {
		return nil, ErrExerciseNameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:              input.Name,
		Description:       input.Description,
		Category:          input.Category,
		MuscleGroups:      input.MuscleGroups,
		EquipmentRequired: input.EquipmentRequired,
		Difficulty:        input.Difficulty,
		VideoURL:          input.VideoURL,
		ImageURL:          input.ImageURL,
		Instructions:      input.Instructions,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	exercise.ID = exerciseID

	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// Update rewrites a catalog entry (admin only), keeping the name unique.
func (s *exerciseService) Update(ctx context.Context, actor *domain.User, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if err := s.access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if input.Name != existing.Name {
		if other, err := s.exerciseRepo.GetByName(ctx, input.Name); err == nil && other.ID != exerciseID {
			return nil, ErrExerciseNameTaken
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Category = input.Category
	existing.MuscleGroups = input.MuscleGroups
	existing.EquipmentRequired = input.EquipmentRequired
	existing.Difficulty = input.Difficulty
	existing.VideoURL = input.VideoURL
	existing.ImageURL = input.ImageURL
	existing.Instructions = input.Instructions

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return existing, nil
}

// Delete removes a catalog entry (admin only).
func (s *exerciseService) Delete(ctx context.Context, actor *domain.User, exerciseID primitive.ObjectID) error {
	if err := s.access.RequireAdmin(actor); err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// SetMedia records the media URLs produced by an upload (admin only).
// Empty strings leave the corresponding URL unchanged.
func (s *exerciseService) SetMedia(ctx context.Context, actor *domain.User, exerciseID primitive.ObjectID, imageURL, videoURL string) (*domain.Exercise, error) {
	if err := s.access.RequireAdmin(actor); err != nil {
		return nil, err
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if imageURL != "" {
		existing.ImageURL = imageURL
	}
	if videoURL != "" {
		existing.VideoURL = videoURL
	}

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func validateExerciseInput(input ExerciseInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if input.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidationFailed)
	}
	if !domain.ValidExerciseCategory(input.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidationFailed, input.Category)
	}
	if !domain.ValidDifficulty(input.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrValidationFailed, input.Difficulty)
	}
	return nil
}
