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

func TestEnsureProfile_ReturnsExisting(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"}
	existing := &domain.Profile{ID: primitive.NewObjectID(), UserID: user.ID}

	created := false
	profileRepo := profileFor(user, existing)
	profileRepo.CreateFunc = func(ctx context.Context, p *domain.Profile) (primitive.ObjectID, error) {
		created = true
		return primitive.NilObjectID, nil
	}

	policy := NewAccessPolicy(profileRepo, &mockSessionRepo{})
	profile, err := policy.EnsureProfile(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, profile.ID)
	assert.False(t, created, "existing profile must not be recreated")
}

func TestEnsureProfile_CreatesLazily(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Username: "bob", Email: "bob@example.com"}
	newID := primitive.NewObjectID()

	var created *domain.Profile
	profileRepo := &mockProfileRepo{
		CreateFunc: func(ctx context.Context, p *domain.Profile) (primitive.ObjectID, error) {
			created = p
			return newID, nil
		},
	}

	policy := NewAccessPolicy(profileRepo, &mockSessionRepo{})
	profile, err := policy.EnsureProfile(context.Background(), user)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, "bob", created.Username)
	assert.Equal(t, domain.GoalGeneral, created.FitnessGoal)
	assert.Equal(t, newID, profile.ID)
}

func TestEnsureProfile_DuplicateRaceRefetches(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Username: "carol", Email: "carol@example.com"}
	winner := &domain.Profile{ID: primitive.NewObjectID(), UserID: user.ID}

	calls := 0
	profileRepo := &mockProfileRepo{
		GetByUserIDFunc: func(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
			calls++
			if calls == 1 {
				return nil, repository.ErrNotFound
			}
			return winner, nil
		},
		CreateFunc: func(ctx context.Context, p *domain.Profile) (primitive.ObjectID, error) {
			return primitive.NilObjectID, repository.ErrDuplicate
		},
	}

	policy := NewAccessPolicy(profileRepo, &mockSessionRepo{})
	profile, err := policy.EnsureProfile(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, profile.ID)
	assert.Equal(t, 2, calls)
}

func TestRequireOwner(t *testing.T) {
	profile := &domain.Profile{ID: primitive.NewObjectID()}
	policy := NewAccessPolicy(&mockProfileRepo{}, &mockSessionRepo{})

	owned := &domain.Workout{CreatorID: profile.ID}
	assert.NoError(t, policy.RequireOwner(profile, owned))

	foreign := &domain.Workout{CreatorID: primitive.NewObjectID()}
	assert.ErrorIs(t, policy.RequireOwner(profile, foreign), ErrAccessDenied)

	// Objects without an owner are denied, not granted.
	assert.ErrorIs(t, policy.RequireOwner(profile, &domain.Exercise{}), ErrAccessDenied)
	assert.ErrorIs(t, policy.RequireOwner(nil, owned), ErrAccessDenied)
}

func TestRequireSessionOwner(t *testing.T) {
	profile := &domain.Profile{ID: primitive.NewObjectID()}
	session := &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: profile.ID}

	sessionRepo := &mockSessionRepo{
		GetByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
			if id == session.ID {
				return session, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	policy := NewAccessPolicy(&mockProfileRepo{}, sessionRepo)

	got, err := policy.RequireSessionOwner(context.Background(), profile, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = policy.RequireSessionOwner(context.Background(), profile, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	other := &domain.Profile{ID: primitive.NewObjectID()}
	_, err = policy.RequireSessionOwner(context.Background(), other, session.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRequireAdmin(t *testing.T) {
	policy := NewAccessPolicy(&mockProfileRepo{}, &mockSessionRepo{})

	assert.ErrorIs(t, policy.RequireAdmin(nil), ErrAdminRequired)
	assert.ErrorIs(t, policy.RequireAdmin(&domain.User{}), ErrAdminRequired)
	assert.NoError(t, policy.RequireAdmin(&domain.User{IsAdmin: true}))
}

func TestCanView(t *testing.T) {
	policy := NewAccessPolicy(&mockProfileRepo{}, &mockSessionRepo{})
	owner := &domain.Profile{ID: primitive.NewObjectID()}

	public := &domain.Workout{IsPublic: true, CreatorID: owner.ID}
	private := &domain.Workout{IsPublic: false, CreatorID: owner.ID}

	assert.True(t, policy.CanView(nil, public))
	assert.True(t, policy.CanView(owner, private))
	assert.False(t, policy.CanView(nil, private))
	assert.False(t, policy.CanView(&domain.Profile{ID: primitive.NewObjectID()}, private))
}
