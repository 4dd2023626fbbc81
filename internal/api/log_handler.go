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

// LogHandler holds the exercise log service dependency.
type LogHandler struct {
	logService service.LogService
	logger     *zap.Logger
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService service.LogService, logger *zap.Logger) *LogHandler {
	return &LogHandler{logService: logService, logger: logger}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateLogRequest defines the expected JSON for recording one set.
type CreateLogRequest struct {
	SessionID         string   `json:"session_id" binding:"required"`
	ExerciseID        string   `json:"exercise_id" binding:"required"`
	SetNumber         int      `json:"set_number" binding:"required,min=1"`
	Reps              *int     `json:"reps" binding:"omitempty,min=0"`
	Weight            *float64 `json:"weight" binding:"omitempty,min=0"`
	Duration          *int     `json:"duration" binding:"omitempty,min=0"`
	Distance          *float64 `json:"distance" binding:"omitempty,min=0"`
	Notes             string   `json:"notes"`
	PerceivedExertion *int     `json:"perceived_exertion" binding:"omitempty,min=1,max=10"`
}

// UpdateLogRequest is the partial-update form; the session association is
// fixed at creation and deliberately absent here.
type UpdateLogRequest struct {
	ExerciseID        *string  `json:"exercise_id"`
	SetNumber         *int     `json:"set_number" binding:"omitempty,min=1"`
	Reps              *int     `json:"reps" binding:"omitempty,min=0"`
	Weight            *float64 `json:"weight" binding:"omitempty,min=0"`
	Duration          *int     `json:"duration" binding:"omitempty,min=0"`
	Distance          *float64 `json:"distance" binding:"omitempty,min=0"`
	Notes             *string  `json:"notes"`
	PerceivedExertion *int     `json:"perceived_exertion" binding:"omitempty,min=1,max=10"`
}

// LogResponse is the DTO for returning one logged set.
type LogResponse struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	ExerciseID        string    `json:"exercise_id"`
	SetNumber         int       `json:"set_number"`
	Reps              *int      `json:"reps,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	Duration          *int      `json:"duration,omitempty"`
	Distance          *float64  `json:"distance,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	PerceivedExertion *int      `json:"perceived_exertion,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// MapLogToResponse converts a domain.ExerciseLog to LogResponse DTO.
func MapLogToResponse(l *domain.ExerciseLog) LogResponse {
	if l == nil {
		return LogResponse{}
	}
	return LogResponse{
		ID:                l.ID.Hex(),
		SessionID:         l.SessionID.Hex(),
		ExerciseID:        l.ExerciseID.Hex(),
		SetNumber:         l.SetNumber,
		Reps:              l.Reps,
		Weight:            l.Weight,
		Duration:          l.Duration,
		Distance:          l.Distance,
		Notes:             l.Notes,
		PerceivedExertion: l.PerceivedExertion,
		CreatedAt:         l.CreatedAt,
	}
}

// MapLogsToResponse converts a slice of logs to DTOs.
func MapLogsToResponse(logs []domain.ExerciseLog) []LogResponse {
	responses := make([]LogResponse, len(logs))
	for i := range logs {
		responses[i] = MapLogToResponse(&logs[i])
	}
	return responses
}

// --- Handler Methods ---

// ListLogs godoc
// @Summary List the caller's exercise logs
// @Description Returns logs from the caller's own sessions only. session_id and exercise_id filters pointing at other users' data yield an empty page.
// @Tags Logs
// @Produce json
// @Security TokenAuth
// @Param session_id query string false "Filter by session ID"
// @Param exercise_id query string false "Filter by exercise ID"
// @Param ordering query string false "Sort field, prefix with - for descending"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} ListResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /logs [get]
func (h *LogHandler) ListLogs(c *gin.Context) {
	sessionID, ok := queryObjectID(c, "session_id")
	if !ok {
		return
	}
	exerciseID, ok := queryObjectID(c, "exercise_id")
	if !ok {
		return
	}

	page, pageSize := queryPaging(c)
	filter := repository.LogFilter{
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		Ordering:   c.Query("ordering"),
		Page:       page,
		PageSize:   pageSize,
	}

	logs, count, err := h.logService.List(c.Request.Context(), getCurrentUser(c), filter)
	if err != nil {
		h.respondLogError(c, err, "Failed to retrieve logs")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Count:   count,
		Results: MapLogsToResponse(logs),
	})
}

// GetLog godoc
// @Summary Get one exercise log (owner only)
// @Tags Logs
// @Produce json
// @Security TokenAuth
// @Param id path string true "Log ID"
// @Success 200 {object} LogResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /logs/{id} [get]
func (h *LogHandler) GetLog(c *gin.Context) {
	logID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	log, err := h.logService.GetByID(c.Request.Context(), getCurrentUser(c), logID)
	if err != nil {
		h.respondLogError(c, err, "Failed to retrieve log")
		return
	}
	c.JSON(http.StatusOK, MapLogToResponse(log))
}

// CreateLog godoc
// @Summary Record a performed set
// @Description The session must belong to the caller; logging against another user's session is forbidden.
// @Tags Logs
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param log body CreateLogRequest true "Log details"
// @Success 201 {object} LogResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (session owned by someone else)"
// @Router /logs [post]
func (h *LogHandler) CreateLog(c *gin.Context) {
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session_id")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise_id")
		return
	}

	log, err := h.logService.Create(c.Request.Context(), getCurrentUser(c), service.LogInput{
		SessionID:         sessionID,
		ExerciseID:        exerciseID,
		SetNumber:         req.SetNumber,
		Reps:              req.Reps,
		Weight:            req.Weight,
		Duration:          req.Duration,
		Distance:          req.Distance,
		Notes:             req.Notes,
		PerceivedExertion: req.PerceivedExertion,
	})
	if err != nil {
		h.respondLogError(c, err, "Failed to create log")
		return
	}
	c.JSON(http.StatusCreated, MapLogToResponse(log))
}

// UpdateLog godoc
// @Summary Update an exercise log (owner only)
// @Description Partial update. The session association never changes. Bound to both PUT and PATCH.
// @Tags Logs
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Log ID"
// @Param log body UpdateLogRequest true "Fields to update"
// @Success 200 {object} LogResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /logs/{id} [put]
func (h *LogHandler) UpdateLog(c *gin.Context) {
	logID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := service.LogUpdate{
		SetNumber:         req.SetNumber,
		Reps:              req.Reps,
		Weight:            req.Weight,
		Duration:          req.Duration,
		Distance:          req.Distance,
		Notes:             req.Notes,
		PerceivedExertion: req.PerceivedExertion,
	}
	if req.ExerciseID != nil {
		exerciseID, err := primitive.ObjectIDFromHex(*req.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise_id")
			return
		}
		update.ExerciseID = &exerciseID
	}

	log, err := h.logService.Update(c.Request.Context(), getCurrentUser(c), logID, update)
	if err != nil {
		h.respondLogError(c, err, "Failed to update log")
		return
	}
	c.JSON(http.StatusOK, MapLogToResponse(log))
}

// DeleteLog godoc
// @Summary Delete an exercise log (owner only)
// @Tags Logs
// @Security TokenAuth
// @Param id path string true "Log ID"
// @Success 204 "Deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /logs/{id} [delete]
func (h *LogHandler) DeleteLog(c *gin.Context) {
	logID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.logService.Delete(c.Request.Context(), getCurrentUser(c), logID); err != nil {
		h.respondLogError(c, err, "Failed to delete log")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LogHandler) respondLogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthRequired):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrLogNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
