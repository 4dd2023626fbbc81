package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	userID := primitive.NewObjectID()
	var storedToken *domain.AuthToken

	userRepo := &mockUserRepo{
		CreateFunc: func(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
			assert.Equal(t, "alice", u.Username)
			assert.NotEmpty(t, u.PasswordHash)
			assert.NotEqual(t, "s3cretpass", u.PasswordHash)
			return userID, nil
		},
	}
	tokenRepo := &mockTokenRepo{
		CreateFunc: func(ctx context.Context, tok *domain.AuthToken) error {
			storedToken = tok
			return nil
		},
	}

	svc := NewAuthService(userRepo, tokenRepo, time.Hour)
	user, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass", "Alice", "Smith")
	require.NoError(t, err)

	assert.Equal(t, userID, user.ID)
	assert.Empty(t, user.PasswordHash, "hash must not leak out of the service")
	require.NotNil(t, storedToken)
	assert.Equal(t, token, storedToken.Key)
	assert.Len(t, token, 64)
	assert.Equal(t, userID, storedToken.UserID)
}

func TestRegister_UsernameTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{Username: username}, nil
		},
	}

	svc := NewAuthService(userRepo, &mockTokenRepo{}, time.Hour)
	_, _, err := svc.Register(context.Background(), "alice", "new@example.com", "s3cretpass", "", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{Email: email}, nil
		},
	}

	svc := NewAuthService(userRepo, &mockTokenRepo{}, time.Hour)
	_, _, err := svc.Register(context.Background(), "newuser", "alice@example.com", "s3cretpass", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	stored := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     "bob",
		PasswordHash: hashOf(t, "hunter22hunter22"),
	}
	userRepo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			if username == "bob" {
				copied := *stored
				return &copied, nil
			}
			return nil, repository.ErrNotFound
		},
	}

	svc := NewAuthService(userRepo, &mockTokenRepo{}, time.Hour)

	token, user, err := svc.Login(context.Background(), "bob", "hunter22hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, stored.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, _, err = svc.Login(context.Background(), "bob", "wrongpassword")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	// An unknown username gets the same error as a bad password.
	_, _, err = svc.Login(context.Background(), "mallory", "hunter22hunter22")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticate(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Username: "carol"}
	valid := &domain.AuthToken{
		Key:       "valid-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	expired := &domain.AuthToken{
		Key:       "expired-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	tokenRepo := &mockTokenRepo{
		GetByKeyFunc: func(ctx context.Context, key string) (*domain.AuthToken, error) {
			switch key {
			case valid.Key:
				return valid, nil
			case expired.Key:
				return expired, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			if id == user.ID {
				copied := *user
				return &copied, nil
			}
			return nil, repository.ErrNotFound
		},
	}

	svc := NewAuthService(userRepo, tokenRepo, time.Hour)

	got, err := svc.Authenticate(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "expired-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesToken(t *testing.T) {
	deleted := ""
	tokenRepo := &mockTokenRepo{
		DeleteByKeyFunc: func(ctx context.Context, key string) error {
			deleted = key
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, tokenRepo, time.Hour)
	require.NoError(t, svc.Logout(context.Background(), "some-token"))
	assert.Equal(t, "some-token", deleted)
}

func TestChangePassword_RotatesTokens(t *testing.T) {
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     "dave",
		PasswordHash: hashOf(t, "oldpassword1"),
	}

	var updatedHash string
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			copied := *user
			return &copied, nil
		},
		UpdateFunc: func(ctx context.Context, u *domain.User) error {
			updatedHash = u.PasswordHash
			return nil
		},
	}

	revokedFor := primitive.NilObjectID
	var issued *domain.AuthToken
	tokenRepo := &mockTokenRepo{
		DeleteByUserIDFunc: func(ctx context.Context, userID primitive.ObjectID) error {
			revokedFor = userID
			return nil
		},
		CreateFunc: func(ctx context.Context, tok *domain.AuthToken) error {
			issued = tok
			return nil
		},
	}

	svc := NewAuthService(userRepo, tokenRepo, time.Hour)

	token, err := svc.ChangePassword(context.Background(), user, "oldpassword1", "newpassword1")
	require.NoError(t, err)

	assert.Equal(t, user.ID, revokedFor, "all old tokens must be revoked")
	require.NotNil(t, issued)
	assert.Equal(t, token, issued.Key)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updatedHash), []byte("newpassword1")))

	_, err = svc.ChangePassword(context.Background(), user, "wrong-old", "newpassword2")
	assert.ErrorIs(t, err, ErrOldPasswordIncorrect)
}
