package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
	"github.com/woodez-kubernetes/workout-api/internal/service"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
	logger         *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, logger: logger}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateSessionRequest defines the expected JSON for creating a session.
type CreateSessionRequest struct {
	WorkoutID     string     `json:"workout_id" binding:"required"`
	Status        string     `json:"status" binding:"omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         string     `json:"notes"`
}

// UpdateSessionRequest is the partial-update form. workout_id and user
// fields are deliberately absent: both are fixed at creation.
type UpdateSessionRequest struct {
	Status        *string    `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	Notes         *string    `json:"notes"`
}

// SessionResponse is the DTO for returning session details. Duration and
// date are derived server-side.
type SessionResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	WorkoutID     string     `json:"workout_id"`
	Status        string     `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Duration      *float64   `json:"duration,omitempty"` // Minutes
	Date          time.Time  `json:"date"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MapSessionToResponse converts a domain.WorkoutSession to SessionResponse DTO.
func MapSessionToResponse(s *domain.WorkoutSession) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		ID:            s.ID.Hex(),
		UserID:        s.UserID.Hex(),
		WorkoutID:     s.WorkoutID.Hex(),
		Status:        string(s.Status),
		ScheduledDate: s.ScheduledDate,
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
		Duration:      s.Duration(),
		Date:          s.Date(),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// MapSessionsToResponse converts a slice of sessions to DTOs.
func MapSessionsToResponse(sessions []domain.WorkoutSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = MapSessionToResponse(&sessions[i])
	}
	return responses
}

// --- Handler Methods ---

// ListSessions godoc
// @Summary List the caller's workout sessions
// @Tags Sessions
// @Produce json
// @Security TokenAuth
// @Param status query string false "Filter by status"
// @Param date_from query string false "Created on or after (RFC 3339)"
// @Param date_to query string false "Created on or before (RFC 3339)"
// @Param ordering query string false "Sort field, prefix with - for descending"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} ListResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	dateFrom, ok := queryDate(c, "date_from")
	if !ok {
		return
	}
	dateTo, ok := queryDate(c, "date_to")
	if !ok {
		return
	}

	page, pageSize := queryPaging(c)
	filter := repository.SessionFilter{
		Status:   c.Query("status"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Ordering: c.Query("ordering"),
		Page:     page,
		PageSize: pageSize,
	}

	sessions, count, err := h.sessionService.List(c.Request.Context(), getCurrentUser(c), filter)
	if err != nil {
		h.respondSessionError(c, err, "Failed to retrieve sessions")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Count:   count,
		Results: MapSessionsToResponse(sessions),
	})
}

// GetSession godoc
// @Summary Get one session (owner only)
// @Tags Sessions
// @Produce json
// @Security TokenAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), getCurrentUser(c), sessionID)
	if err != nil {
		h.respondSessionError(c, err, "Failed to retrieve session")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// CreateSession godoc
// @Summary Create a session
// @Description Schedules an attempt at an existing workout. Status defaults to planned.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param session body CreateSessionRequest true "Session details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout_id")
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), getCurrentUser(c), service.SessionInput{
		WorkoutID:     workoutID,
		Status:        domain.SessionStatus(req.Status),
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondSessionError(c, err, "Failed to create session")
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// UpdateSession godoc
// @Summary Update a session (owner only)
// @Description Partial update of status, dates and notes. The workout reference and owner never change. Bound to both PUT and PATCH.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Session ID"
// @Param session body UpdateSessionRequest true "Fields to update"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /sessions/{id} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := service.SessionUpdate{
		ScheduledDate: req.ScheduledDate,
		StartedAt:     req.StartedAt,
		CompletedAt:   req.CompletedAt,
		Notes:         req.Notes,
	}
	if req.Status != nil {
		status := domain.SessionStatus(*req.Status)
		update.Status = &status
	}

	session, err := h.sessionService.Update(c.Request.Context(), getCurrentUser(c), sessionID, update)
	if err != nil {
		h.respondSessionError(c, err, "Failed to update session")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// DeleteSession godoc
// @Summary Delete a session (owner only)
// @Description Deletes the session together with its exercise logs.
// @Tags Sessions
// @Security TokenAuth
// @Param id path string true "Session ID"
// @Success 204 "Deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), getCurrentUser(c), sessionID); err != nil {
		h.respondSessionError(c, err, "Failed to delete session")
		return
	}
	c.Status(http.StatusNoContent)
}

// StartSession godoc
// @Summary Start a session (owner only)
// @Description Sets status to in_progress and stamps started_at with the server time. Succeeds from any prior status.
// @Tags Sessions
// @Produce json
// @Security TokenAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), getCurrentUser(c), sessionID)
	if err != nil {
		h.respondSessionError(c, err, "Failed to start session")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// CompleteSession godoc
// @Summary Complete a session (owner only)
// @Description Sets status to completed and stamps completed_at with the server time. Succeeds from any prior status.
// @Tags Sessions
// @Produce json
// @Security TokenAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Complete(c.Request.Context(), getCurrentUser(c), sessionID)
	if err != nil {
		h.respondSessionError(c, err, "Failed to complete session")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

func (h *SessionHandler) respondSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthRequired):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
