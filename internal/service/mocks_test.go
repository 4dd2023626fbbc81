package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// Func-field mocks for the repository interfaces. Unset funcs return
// repository.ErrNotFound where that makes a safe default.

type mockUserRepo struct {
	CreateFunc        func(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByIDFunc       func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc        func(ctx context.Context, user *domain.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if m.CreateFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, user)
}

type mockTokenRepo struct {
	CreateFunc         func(ctx context.Context, token *domain.AuthToken) error
	GetByKeyFunc       func(ctx context.Context, key string) (*domain.AuthToken, error)
	DeleteByKeyFunc    func(ctx context.Context, key string) error
	DeleteByUserIDFunc func(ctx context.Context, userID primitive.ObjectID) error
}

func (m *mockTokenRepo) Create(ctx context.Context, token *domain.AuthToken) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, token)
}

func (m *mockTokenRepo) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	if m.GetByKeyFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByKeyFunc(ctx, key)
}

func (m *mockTokenRepo) DeleteByKey(ctx context.Context, key string) error {
	if m.DeleteByKeyFunc == nil {
		return nil
	}
	return m.DeleteByKeyFunc(ctx, key)
}

func (m *mockTokenRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	if m.DeleteByUserIDFunc == nil {
		return nil
	}
	return m.DeleteByUserIDFunc(ctx, userID)
}

type mockProfileRepo struct {
	CreateFunc      func(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByIDFunc     func(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetByUserIDFunc func(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	UpdateFunc      func(ctx context.Context, profile *domain.Profile) error
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if m.CreateFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.CreateFunc(ctx, profile)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	if m.GetByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	if m.GetByUserIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByUserIDFunc(ctx, userID)
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, profile)
}

type mockExerciseRepo struct {
	CreateFunc    func(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByIDFunc   func(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByNameFunc func(ctx context.Context, name string) (*domain.Exercise, error)
	ListFunc      func(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error)
	UpdateFunc    func(ctx context.Context, exercise *domain.Exercise) error
	DeleteFunc    func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if m.CreateFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.CreateFunc(ctx, exercise)
}

func (m *mockExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	if m.GetByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockExerciseRepo) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	if m.GetByNameFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByNameFunc(ctx, name)
}

func (m *mockExerciseRepo) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	if m.ListFunc == nil {
		return nil, 0, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *mockExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, exercise)
}

func (m *mockExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

type mockWorkoutRepo struct {
	CreateFunc  func(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByIDFunc func(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	ListFunc    func(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, int64, error)
	UpdateFunc  func(ctx context.Context, workout *domain.Workout) error
	DeleteFunc  func(ctx context.Context, id primitive.ObjectID) error
}

func (m *mockWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if m.CreateFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.CreateFunc(ctx, workout)
}

func (m *mockWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	if m.GetByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockWorkoutRepo) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, int64, error) {
	if m.ListFunc == nil {
		return nil, 0, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *mockWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, workout)
}

func (m *mockWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

type mockSessionRepo struct {
	CreateFunc            func(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByIDFunc           func(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	ListFunc              func(ctx context.Context, filter repository.SessionFilter) ([]domain.WorkoutSession, int64, error)
	GetIDsByProfileIDFunc func(ctx context.Context, profileID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetIDsByWorkoutIDFunc func(ctx context.Context, workoutID primitive.ObjectID) ([]primitive.ObjectID, error)
	UpdateFunc            func(ctx context.Context, session *domain.WorkoutSession) error
	DeleteFunc            func(ctx context.Context, id primitive.ObjectID) error
	DeleteByWorkoutIDFunc func(ctx context.Context, workoutID primitive.ObjectID) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if m.CreateFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.CreateFunc(ctx, session)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	if m.GetByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockSessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]domain.WorkoutSession, int64, error) {
	if m.ListFunc == nil {
		return nil, 0, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *mockSessionRepo) GetIDsByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if m.GetIDsByProfileIDFunc == nil {
		return nil, nil
	}
	return m.GetIDsByProfileIDFunc(ctx, profileID)
}

func (m *mockSessionRepo) GetIDsByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if m.GetIDsByWorkoutIDFunc == nil {
		return nil, nil
	}
	return m.GetIDsByWorkoutIDFunc(ctx, workoutID)
}

func (m *mockSessionRepo) Update(ctx context.Context, session *domain.WorkoutSession) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, session)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *mockSessionRepo) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	if m.DeleteByWorkoutIDFunc == nil {
		return nil
	}
	return m.DeleteByWorkoutIDFunc(ctx, workoutID)
}

type mockLogRepo struct {
	CreateFunc             func(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetByIDFunc            func(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	ListFunc               func(ctx context.Context, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error)
	UpdateFunc             func(ctx context.Context, log *domain.ExerciseLog) error
	DeleteFunc             func(ctx context.Context, id primitive.ObjectID) error
	DeleteBySessionIDsFunc func(ctx context.Context, sessionIDs []primitive.ObjectID) error
}

func (m *mockLogRepo) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if m.CreateFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.CreateFunc(ctx, log)
}

func (m *mockLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	if m.GetByIDFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockLogRepo) List(ctx context.Context, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
	if m.ListFunc == nil {
		return nil, 0, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *mockLogRepo) Update(ctx context.Context, log *domain.ExerciseLog) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, log)
}

func (m *mockLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *mockLogRepo) DeleteBySessionIDs(ctx context.Context, sessionIDs []primitive.ObjectID) error {
	if m.DeleteBySessionIDsFunc == nil {
		return nil
	}
	return m.DeleteBySessionIDsFunc(ctx, sessionIDs)
}

// profileFor wires a profile repo that always resolves the given profile for
// its user, the common fixture for ownership tests.
func profileFor(user *domain.User, profile *domain.Profile) *mockProfileRepo {
	return &mockProfileRepo{
		GetByUserIDFunc: func(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
			if userID == user.ID {
				return profile, nil
			}
			return nil, repository.ErrNotFound
		},
	}
}
