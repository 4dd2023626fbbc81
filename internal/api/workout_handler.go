package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
	"github.com/woodez-kubernetes/workout-api/internal/service"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	logger         *zap.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, logger: logger}
}

// --- DTOs for API (Data Transfer Objects) ---

// WorkoutEntryRequest is one exercise slot inside a workout payload.
type WorkoutEntryRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	Order      int    `json:"order" binding:"required,min=1"`
	Sets       *int   `json:"sets"`
	Reps       *int   `json:"reps" binding:"omitempty,min=0"`
	Duration   *int   `json:"duration" binding:"omitempty,min=0"`
	RestPeriod *int   `json:"rest_period" binding:"omitempty,min=0"`
	Notes      string `json:"notes"`
}

// CreateWorkoutRequest defines the expected JSON for creating a workout.
type CreateWorkoutRequest struct {
	Title             string                `json:"title" binding:"required"`
	Description       string                `json:"description"`
	Difficulty        string                `json:"difficulty" binding:"required"`
	IsPublic          bool                  `json:"is_public"`
	EstimatedDuration *int                  `json:"estimated_duration" binding:"omitempty,min=0"`
	Tags              []string              `json:"tags"`
	Entries           []WorkoutEntryRequest `json:"entries"`
}

// UpdateWorkoutRequest is the partial-update form; absent fields are left
// untouched, a present entries array replaces the whole entry list.
type UpdateWorkoutRequest struct {
	Title             *string                `json:"title"`
	Description       *string                `json:"description"`
	Difficulty        *string                `json:"difficulty"`
	IsPublic          *bool                  `json:"is_public"`
	EstimatedDuration *int                   `json:"estimated_duration" binding:"omitempty,min=0"`
	Tags              *[]string              `json:"tags"`
	Entries           *[]WorkoutEntryRequest `json:"entries"`
}

// WorkoutEntryResponse mirrors one embedded workout entry.
type WorkoutEntryResponse struct {
	ExerciseID string `json:"exercise_id"`
	Order      int    `json:"order"`
	Sets       int    `json:"sets"`
	Reps       *int   `json:"reps,omitempty"`
	Duration   *int   `json:"duration,omitempty"`
	RestPeriod int    `json:"rest_period"`
	Notes      string `json:"notes,omitempty"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID                string                 `json:"id"`
	CreatorID         string                 `json:"creator_id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description,omitempty"`
	Difficulty        string                 `json:"difficulty"`
	IsPublic          bool                   `json:"is_public"`
	EstimatedDuration *int                   `json:"estimated_duration,omitempty"`
	TotalExercises    int                    `json:"total_exercises"`
	Tags              []string               `json:"tags,omitempty"`
	Entries           []WorkoutEntryResponse `json:"entries"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	entries := make([]WorkoutEntryResponse, len(w.Entries))
	for i, e := range w.Entries {
		entries[i] = WorkoutEntryResponse{
			ExerciseID: e.ExerciseID.Hex(),
			Order:      e.Order,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Duration:   e.Duration,
			RestPeriod: e.RestPeriod,
			Notes:      e.Notes,
		}
	}
	return WorkoutResponse{
		ID:                w.ID.Hex(),
		CreatorID:         w.CreatorID.Hex(),
		Title:             w.Title,
		Description:       w.Description,
		Difficulty:        string(w.Difficulty),
		IsPublic:          w.IsPublic,
		EstimatedDuration: w.EstimatedDuration,
		TotalExercises:    w.TotalExercises(),
		Tags:              w.Tags,
		Entries:           entries,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

// MapWorkoutsToResponse converts a slice of domain.Workout to DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

func entryInputsFromRequest(entries []WorkoutEntryRequest) ([]service.WorkoutEntryInput, error) {
	inputs := make([]service.WorkoutEntryInput, len(entries))
	for i, e := range entries {
		exerciseID, err := primitive.ObjectIDFromHex(e.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid exercise_id", i)
		}
		sets := 3
		if e.Sets != nil {
			sets = *e.Sets
		}
		rest := 60
		if e.RestPeriod != nil {
			rest = *e.RestPeriod
		}
		inputs[i] = service.WorkoutEntryInput{
			ExerciseID: exerciseID,
			Order:      e.Order,
			Sets:       sets,
			Reps:       e.Reps,
			Duration:   e.Duration,
			RestPeriod: rest,
			Notes:      e.Notes,
		}
	}
	return inputs, nil
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List workouts
// @Description Returns public workouts plus the caller's own. Anonymous callers see public workouts only.
// @Tags Workouts
// @Produce json
// @Param difficulty query string false "Filter by difficulty"
// @Param tags query string false "Comma-separated tags, any-of match"
// @Param search query string false "Case-insensitive title substring"
// @Param ordering query string false "Sort field, prefix with - for descending"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} ListResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	page, pageSize := queryPaging(c)
	filter := repository.WorkoutFilter{
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	workouts, count, err := h.workoutService.List(c.Request.Context(), getCurrentUser(c), filter)
	if err != nil {
		h.logger.Error("failed to list workouts", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Count:   count,
		Results: MapWorkoutsToResponse(workouts),
	})
}

// GetWorkout godoc
// @Summary Get one workout
// @Description Public workouts are visible to everyone; private ones only to their creator. Inaccessible and missing workouts are indistinguishable.
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.GetByID(c.Request.Context(), getCurrentUser(c), workoutID)
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to retrieve workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CreateWorkout godoc
// @Summary Create a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entries, err := entryInputsFromRequest(req.Entries)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), getCurrentUser(c), service.WorkoutInput{
		Title:             req.Title,
		Description:       req.Description,
		Difficulty:        domain.Difficulty(req.Difficulty),
		IsPublic:          req.IsPublic,
		EstimatedDuration: req.EstimatedDuration,
		Tags:              req.Tags,
		Entries:           entries,
	})
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to create workout")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// UpdateWorkout godoc
// @Summary Update a workout (owner only)
// @Description Partial update. A present entries array replaces the full entry list. Bound to both PUT and PATCH.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "Fields to update"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not the creator)"
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := service.WorkoutUpdate{
		Title:             req.Title,
		Description:       req.Description,
		IsPublic:          req.IsPublic,
		EstimatedDuration: req.EstimatedDuration,
		Tags:              req.Tags,
	}
	if req.Difficulty != nil {
		difficulty := domain.Difficulty(*req.Difficulty)
		update.Difficulty = &difficulty
	}
	if req.Entries != nil {
		entries, err := entryInputsFromRequest(*req.Entries)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		update.Entries = &entries
	}

	workout, err := h.workoutService.Update(c.Request.Context(), getCurrentUser(c), workoutID, update)
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout (owner only)
// @Description Deletes the workout together with its sessions and their logs.
// @Tags Workouts
// @Security TokenAuth
// @Param id path string true "Workout ID"
// @Success 204 "Deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not the creator)"
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), getCurrentUser(c), workoutID); err != nil {
		h.respondWorkoutError(c, err, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneWorkout godoc
// @Summary Clone a visible workout
// @Description Creates a private copy of any workout the caller may view, titled "<original> (Copy)".
// @Tags Workouts
// @Produce json
// @Security TokenAuth
// @Param id path string true "Workout ID"
// @Success 201 {object} WorkoutResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found or not visible"
// @Router /workouts/{id}/clone [post]
func (h *WorkoutHandler) CloneWorkout(c *gin.Context) {
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	clone, err := h.workoutService.Clone(c.Request.Context(), getCurrentUser(c), workoutID)
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to clone workout")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(clone))
}

func (h *WorkoutHandler) respondWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthRequired):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
