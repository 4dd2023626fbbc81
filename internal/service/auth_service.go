package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, tokenKey string) (*domain.User, error)
	Logout(ctx context.Context, tokenKey string) error
	ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (string, error)
}

// --- Service Implementation ---

// authService implements the AuthService interface with bcrypt password
// hashing and opaque stored tokens (revocable on logout/password change).
type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	tokenTTL  time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokenTTL:  tokenTTL,
	}
}

// Register handles new user registration and issues the first token.
func (s *authService) Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", errors.New("username, email and password cannot be empty")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrHashingFailed
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index can still catch a race between the exists-check
		// and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}
	user.ID = userID

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login handles user authentication and token issuance.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, errors.New("username and password cannot be empty")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Authenticate resolves an opaque token value to its user, rejecting
// unknown and expired tokens.
func (s *authService) Authenticate(ctx context.Context, tokenKey string) (*domain.User, error) {
	if tokenKey == "" {
		return nil, ErrInvalidToken
	}

	token, err := s.tokenRepo.GetByKey(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if token.Expired(time.Now().UTC()) {
		// The TTL index reaps these eventually; until then treat as invalid.
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Logout revokes the presented token.
func (s *authService) Logout(ctx context.Context, tokenKey string) error {
	err := s.tokenRepo.DeleteByKey(ctx, tokenKey)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}

// ChangePassword verifies the old password, stores the new hash, revokes
// every outstanding token for the user and returns a fresh one.
func (s *authService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (string, error) {
	stored, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(oldPassword)); err != nil {
		return "", ErrOldPasswordIncorrect
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	stored.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, stored); err != nil {
		return "", err
	}

	if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return "", err
	}
	return s.issueToken(ctx, stored)
}

// issueToken stores and returns a new opaque token for the user.
func (s *authService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now().UTC()
	token := &domain.AuthToken{
		Key:       newTokenKey(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}
	return token.Key, nil
}

// newTokenKey produces a 64-hex-character opaque token value.
func newTokenKey() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
