package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

type logFixture struct {
	user    *domain.User
	profile *domain.Profile
	session *domain.WorkoutSession

	logRepo      *mockLogRepo
	sessionRepo  *mockSessionRepo
	exerciseRepo *mockExerciseRepo

	svc LogService
}

func newLogFixture() *logFixture {
	f := &logFixture{
		user:         &domain.User{ID: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"},
		logRepo:      &mockLogRepo{},
		sessionRepo:  &mockSessionRepo{},
		exerciseRepo: &mockExerciseRepo{},
	}
	f.profile = &domain.Profile{ID: primitive.NewObjectID(), UserID: f.user.ID}
	f.session = &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: f.profile.ID}

	f.sessionRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
		if id == f.session.ID {
			return f.session, nil
		}
		return nil, repository.ErrNotFound
	}
	f.exerciseRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
		return &domain.Exercise{ID: id}, nil
	}

	access := NewAccessPolicy(profileFor(f.user, f.profile), f.sessionRepo)
	f.svc = NewLogService(f.logRepo, f.sessionRepo, f.exerciseRepo, access)
	return f
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestLogCreate_Success(t *testing.T) {
	f := newLogFixture()

	var created *domain.ExerciseLog
	f.logRepo.CreateFunc = func(ctx context.Context, l *domain.ExerciseLog) (primitive.ObjectID, error) {
		created = l
		l.ID = primitive.NewObjectID()
		return l.ID, nil
	}
	f.logRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
		return created, nil
	}

	log, err := f.svc.Create(context.Background(), f.user, LogInput{
		SessionID:         f.session.ID,
		ExerciseID:        primitive.NewObjectID(),
		SetNumber:         1,
		Reps:              intPtr(8),
		Weight:            floatPtr(82.5),
		PerceivedExertion: intPtr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, f.session.ID, log.SessionID)
	assert.Equal(t, 1, log.SetNumber)
}

func TestLogCreate_ForeignSessionDenied(t *testing.T) {
	f := newLogFixture()
	foreign := &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}
	f.sessionRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
		if id == foreign.ID {
			return foreign, nil
		}
		return nil, repository.ErrNotFound
	}

	// The session exists, it just belongs to someone else: denied, not hidden.
	_, err := f.svc.Create(context.Background(), f.user, LogInput{
		SessionID:  foreign.ID,
		ExerciseID: primitive.NewObjectID(),
		SetNumber:  1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestLogCreate_Validation(t *testing.T) {
	f := newLogFixture()

	tests := []struct {
		name  string
		input LogInput
	}{
		{"zero set number", LogInput{SessionID: f.session.ID, ExerciseID: primitive.NewObjectID(), SetNumber: 0}},
		{"negative weight", LogInput{SessionID: f.session.ID, ExerciseID: primitive.NewObjectID(), SetNumber: 1, Weight: floatPtr(-10)}},
		{"negative duration", LogInput{SessionID: f.session.ID, ExerciseID: primitive.NewObjectID(), SetNumber: 1, Duration: intPtr(-5)}},
		{"negative distance", LogInput{SessionID: f.session.ID, ExerciseID: primitive.NewObjectID(), SetNumber: 1, Distance: floatPtr(-1)}},
		{"exertion too high", LogInput{SessionID: f.session.ID, ExerciseID: primitive.NewObjectID(), SetNumber: 1, PerceivedExertion: intPtr(11)}},
		{"exertion too low", LogInput{SessionID: f.session.ID, ExerciseID: primitive.NewObjectID(), SetNumber: 1, PerceivedExertion: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.user, tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestLogCreate_MissingSessionIsValidationError(t *testing.T) {
	f := newLogFixture()

	_, err := f.svc.Create(context.Background(), f.user, LogInput{
		SessionID:  primitive.NewObjectID(),
		ExerciseID: primitive.NewObjectID(),
		SetNumber:  1,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLogGetByID_TransitiveOwnership(t *testing.T) {
	f := newLogFixture()
	mine := &domain.ExerciseLog{ID: primitive.NewObjectID(), SessionID: f.session.ID, SetNumber: 1}
	foreignSession := &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}
	foreign := &domain.ExerciseLog{ID: primitive.NewObjectID(), SessionID: foreignSession.ID, SetNumber: 1}

	f.sessionRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
		switch id {
		case f.session.ID:
			return f.session, nil
		case foreignSession.ID:
			return foreignSession, nil
		}
		return nil, repository.ErrNotFound
	}
	f.logRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
		switch id {
		case mine.ID:
			return mine, nil
		case foreign.ID:
			return foreign, nil
		}
		return nil, repository.ErrNotFound
	}

	got, err := f.svc.GetByID(context.Background(), f.user, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = f.svc.GetByID(context.Background(), f.user, foreign.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), f.user, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestLogList_ScopedToOwnSessions(t *testing.T) {
	f := newLogFixture()
	sessionIDs := []primitive.ObjectID{f.session.ID}
	f.sessionRepo.GetIDsByProfileIDFunc = func(ctx context.Context, profileID primitive.ObjectID) ([]primitive.ObjectID, error) {
		assert.Equal(t, f.profile.ID, profileID)
		return sessionIDs, nil
	}

	var gotFilter repository.LogFilter
	f.logRepo.ListFunc = func(ctx context.Context, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
		gotFilter = filter
		return []domain.ExerciseLog{}, 0, nil
	}

	_, _, err := f.svc.List(context.Background(), f.user, repository.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, sessionIDs, gotFilter.SessionIDs)
}

func TestLogList_ForeignSessionFilterYieldsEmptyPage(t *testing.T) {
	f := newLogFixture()
	f.sessionRepo.GetIDsByProfileIDFunc = func(ctx context.Context, profileID primitive.ObjectID) ([]primitive.ObjectID, error) {
		return []primitive.ObjectID{f.session.ID}, nil
	}

	listed := false
	f.logRepo.ListFunc = func(ctx context.Context, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
		listed = true
		return []domain.ExerciseLog{{ID: primitive.NewObjectID()}}, 1, nil
	}

	// A session filter naming someone else's session must not reach the
	// repository; the caller gets an empty page, not that user's logs.
	foreign := primitive.NewObjectID()
	logs, count, err := f.svc.List(context.Background(), f.user, repository.LogFilter{SessionID: &foreign})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Zero(t, count)
	assert.False(t, listed, "foreign session filter must not query the repository")

	// Filtering by one's own session passes through with the scope intact.
	own := f.session.ID
	_, _, err = f.svc.List(context.Background(), f.user, repository.LogFilter{SessionID: &own})
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestLogList_NoSessionsShortCircuits(t *testing.T) {
	f := newLogFixture()

	listed := false
	f.logRepo.ListFunc = func(ctx context.Context, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
		listed = true
		return nil, 0, nil
	}

	logs, count, err := f.svc.List(context.Background(), f.user, repository.LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Zero(t, count)
	assert.False(t, listed, "no query should run when the user owns no sessions")
}

func TestLogUpdate_RevalidatesMergedState(t *testing.T) {
	f := newLogFixture()
	mine := &domain.ExerciseLog{ID: primitive.NewObjectID(), SessionID: f.session.ID, SetNumber: 2, Weight: floatPtr(60)}
	f.logRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
		if id == mine.ID {
			copied := *mine
			return &copied, nil
		}
		return nil, repository.ErrNotFound
	}

	var updated *domain.ExerciseLog
	f.logRepo.UpdateFunc = func(ctx context.Context, l *domain.ExerciseLog) error {
		updated = l
		return nil
	}

	got, err := f.svc.Update(context.Background(), f.user, mine.ID, LogUpdate{Weight: floatPtr(65)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 65.0, *got.Weight)
	assert.Equal(t, 2, got.SetNumber, "unsent fields survive")

	_, err = f.svc.Update(context.Background(), f.user, mine.ID, LogUpdate{Weight: floatPtr(-1)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLogDelete_OwnerOnly(t *testing.T) {
	f := newLogFixture()
	mine := &domain.ExerciseLog{ID: primitive.NewObjectID(), SessionID: f.session.ID, SetNumber: 1}
	f.logRepo.GetByIDFunc = func(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
		if id == mine.ID {
			return mine, nil
		}
		return nil, repository.ErrNotFound
	}

	deleted := false
	f.logRepo.DeleteFunc = func(ctx context.Context, id primitive.ObjectID) error {
		deleted = id == mine.ID
		return nil
	}

	require.NoError(t, f.svc.Delete(context.Background(), f.user, mine.ID))
	assert.True(t, deleted)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.user, primitive.NewObjectID()), ErrLogNotFound)
}
