package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/service"
)

// AuthHandler holds the auth and profile service dependencies.
type AuthHandler struct {
	authService    service.AuthService
	profileService service.ProfileService
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, profileService service.ProfileService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		logger:         logger,
	}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username        string   `json:"username" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	PasswordConfirm string   `json:"password_confirm" binding:"required"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Height          *int     `json:"height" binding:"omitempty,min=0"`
	Weight          *float64 `json:"weight" binding:"omitempty,min=0"`
	FitnessGoal     *string  `json:"fitness_goal"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse is the DTO for the fitness profile.
type ProfileResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Height      *int       `json:"height,omitempty"`
	Weight      *float64   `json:"weight,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	FitnessGoal string     `json:"fitness_goal"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type RegisterResponse struct {
	Token   string           `json:"token"`
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string           `json:"token"`
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

// MeResponse pairs the account with its fitness profile.
type MeResponse struct {
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

// ProfileUpdateRequest covers both the user fields and the fitness fields
// a profile PUT/PATCH may carry. All fields optional; absent fields are
// left untouched.
type ProfileUpdateRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Height      *int       `json:"height" binding:"omitempty,min=0"`
	Weight      *float64   `json:"weight" binding:"omitempty,min=0"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	FitnessGoal *string    `json:"fitness_goal"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates a user account, its fitness profile and the first auth token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} RegisterResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (username or email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.Password != req.PasswordConfirm {
		abortWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}
	if req.FitnessGoal != nil && !domain.ValidFitnessGoal(domain.FitnessGoal(*req.FitnessGoal)) {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown fitness goal %q", *req.FitnessGoal))
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrHashingFailed):
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	resp := RegisterResponse{
		Token: token,
		User:  MapUserToResponse(user),
	}

	// The account and token are already committed at this point, so a
	// profile store failure degrades to a warning instead of failing the
	// registration. The profile is re-created lazily on the next touch.
	update := service.ProfileUpdate{Height: req.Height, Weight: req.Weight}
	if req.FitnessGoal != nil {
		goal := domain.FitnessGoal(*req.FitnessGoal)
		update.FitnessGoal = &goal
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), user, update)
	if err != nil {
		h.logger.Warn("profile creation failed during registration",
			zap.String("username", user.Username),
			zap.Error(err),
		)
		resp.Warning = "User created but profile creation failed"
	} else {
		p := MapProfileToResponse(profile)
		resp.Profile = &p
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a fresh auth token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	resp := LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	}
	if profile, err := h.profileService.GetOrCreate(c.Request.Context(), user); err != nil {
		h.logger.Warn("profile lookup failed during login",
			zap.String("username", user.Username),
			zap.Error(err),
		)
		resp.Warning = "Profile unavailable"
	} else {
		p := MapProfileToResponse(profile)
		resp.Profile = &p
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the token used on this request.
// @Tags Auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} gin.H "Logged out"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenKey := getTokenKey(c)
	if tokenKey == "" {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), tokenKey); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out"})
}

// Me godoc
// @Summary Get the current user
// @Tags Auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := getCurrentUser(c)
	if user == nil {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	resp := MeResponse{User: MapUserToResponse(user)}
	if profile, err := h.profileService.GetOrCreate(c.Request.Context(), user); err != nil {
		h.logger.Warn("profile lookup failed", zap.String("username", user.Username), zap.Error(err))
		resp.Warning = "Profile unavailable"
	} else {
		p := MapProfileToResponse(profile)
		resp.Profile = &p
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Get the current user's fitness profile
// @Description Returns the profile, creating it on first access.
// @Tags Auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user := getCurrentUser(c)
	if user == nil {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.profileService.GetOrCreate(c.Request.Context(), user)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Partial update of user fields (name, email) and fitness fields. Bound to both PUT and PATCH.
// @Tags Auth
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param profile body ProfileUpdateRequest true "Fields to update"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := getCurrentUser(c)
	if user == nil {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if req.FirstName != nil || req.LastName != nil || req.Email != nil {
		updated, err := h.profileService.UpdateUser(c.Request.Context(), user, req.FirstName, req.LastName, req.Email)
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				abortWithError(c, http.StatusConflict, err.Error())
			} else {
				abortWithError(c, http.StatusInternalServerError, "Failed to update user")
			}
			return
		}
		user = updated
	}

	update := service.ProfileUpdate{
		Height:      req.Height,
		Weight:      req.Weight,
		DateOfBirth: req.DateOfBirth,
	}
	if req.FitnessGoal != nil {
		goal := domain.FitnessGoal(*req.FitnessGoal)
		update.FitnessGoal = &goal
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), user, update)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Description Verifies the old password, sets the new one and rotates all tokens. The response carries the replacement token.
// @Tags Auth
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param passwords body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} gin.H "Password changed; body contains the new token"
// @Failure 400 {object} gin.H "Invalid input or wrong old password"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := getCurrentUser(c)
	if user == nil {
		abortWithError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, err := h.authService.ChangePassword(c.Request.Context(), user, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOldPasswordIncorrect):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrHashingFailed):
			abortWithError(c, http.StatusInternalServerError, "Could not process password change")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detail": "Password changed successfully",
		"token":  token,
	})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

// MapProfileToResponse converts a domain.Profile to ProfileResponse DTO.
func MapProfileToResponse(profile *domain.Profile) ProfileResponse {
	if profile == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		ID:          profile.ID.Hex(),
		Username:    profile.Username,
		Email:       profile.Email,
		Height:      profile.Height,
		Weight:      profile.Weight,
		DateOfBirth: profile.DateOfBirth,
		FitnessGoal: string(profile.FitnessGoal),
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}
