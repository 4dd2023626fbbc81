package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
	"github.com/woodez-kubernetes/workout-api/internal/service"
	"github.com/woodez-kubernetes/workout-api/internal/storage"
)

// ExerciseHandler holds the exercise service and media storage dependencies.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	fileStorage     storage.FileStorage
	logger          *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler. fileStorage may be nil
// when the deployment has no object store; the media endpoints then return
// 503.
func NewExerciseHandler(exerciseService service.ExerciseService, fileStorage storage.FileStorage, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		fileStorage:     fileStorage,
		logger:          logger,
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an
// exercise. Update uses the same full representation.
type ExerciseRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Category          string   `json:"category" binding:"required"`
	MuscleGroups      []string `json:"muscle_groups"`
	EquipmentRequired []string `json:"equipment_required"`
	Difficulty        string   `json:"difficulty" binding:"required"`
	Instructions      []string `json:"instructions"`
	VideoURL          string   `json:"video_url" binding:"omitempty"`
	ImageURL          string   `json:"image_url" binding:"omitempty"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	MuscleGroups      []string  `json:"muscle_groups"`
	EquipmentRequired []string  `json:"equipment_required"`
	Difficulty        string    `json:"difficulty"`
	Instructions      []string  `json:"instructions,omitempty"`
	VideoURL          string    `json:"video_url,omitempty"`
	ImageURL          string    `json:"image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MediaUploadRequest asks for a presigned upload slot for exercise media.
type MediaUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=image video"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// MediaUploadResponse carries the presigned PUT URL the client uploads to.
type MediaUploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"` // Seconds
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:                ex.ID.Hex(),
		Name:              ex.Name,
		Description:       ex.Description,
		Category:          string(ex.Category),
		MuscleGroups:      ex.MuscleGroups,
		EquipmentRequired: ex.EquipmentRequired,
		Difficulty:        string(ex.Difficulty),
		Instructions:      ex.Instructions,
		VideoURL:          ex.VideoURL,
		ImageURL:          ex.ImageURL,
		CreatedAt:         ex.CreatedAt,
		UpdatedAt:         ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func exerciseInputFromRequest(req ExerciseRequest) service.ExerciseInput {
	return service.ExerciseInput{
		Name:              req.Name,
		Description:       req.Description,
		Category:          domain.ExerciseCategory(req.Category),
		MuscleGroups:      req.MuscleGroups,
		EquipmentRequired: req.EquipmentRequired,
		Difficulty:        domain.Difficulty(req.Difficulty),
		Instructions:      req.Instructions,
		VideoURL:          req.VideoURL,
		ImageURL:          req.ImageURL,
	}
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the exercise catalog
// @Description Publicly readable. Supports category, difficulty, muscle_group and search filters plus ordering and pagination.
// @Tags Exercises
// @Produce json
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty"
// @Param muscle_group query string false "Filter by muscle group"
// @Param search query string false "Case-insensitive name substring"
// @Param ordering query string false "Sort field, prefix with - for descending"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} ListResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	page, pageSize := queryPaging(c)
	filter := repository.ExerciseFilter{
		Category:    c.Query("category"),
		Difficulty:  c.Query("difficulty"),
		MuscleGroup: c.Query("muscle_group"),
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
		Page:        page,
		PageSize:    pageSize,
	}

	exercises, count, err := h.exerciseService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list exercises", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises")
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Count:   count,
		Results: MapExercisesToResponse(exercises),
	})
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise godoc
// @Summary Create a catalog exercise (admin only)
// @Tags Exercises
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 409 {object} gin.H "Conflict (name already exists)"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), getCurrentUser(c), exerciseInputFromRequest(req))
	if err != nil {
		h.respondExerciseError(c, err, "Failed to create exercise")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update a catalog exercise (admin only)
// @Tags Exercises
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Full exercise representation"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), getCurrentUser(c), exerciseID, exerciseInputFromRequest(req))
	if err != nil {
		h.respondExerciseError(c, err, "Failed to update exercise")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete a catalog exercise (admin only)
// @Tags Exercises
// @Security TokenAuth
// @Param id path string true "Exercise ID"
// @Success 204 "Deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseService.Delete(c.Request.Context(), getCurrentUser(c), exerciseID); err != nil {
		h.respondExerciseError(c, err, "Failed to delete exercise")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestMediaUpload godoc
// @Summary Request a presigned upload URL for exercise media (admin only)
// @Description Returns a short-lived PUT URL. The object key is recorded on the exercise once the slot is issued; the client uploads directly to object storage.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Exercise ID"
// @Param media body MediaUploadRequest true "Media slot details"
// @Success 200 {object} MediaUploadResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Not found"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /exercises/{id}/media [post]
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	if h.fileStorage == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.GetByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise")
		}
		return
	}

	objectKey := storage.MediaObjectKey(exerciseID, req.Kind, req.Filename)
	uploadURL, err := h.fileStorage.GeneratePresignedUploadURL(c.Request.Context(), objectKey, req.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	var imageURL, videoURL string
	var previousKey string
	if req.Kind == "image" {
		previousKey = exercise.ImageURL
		imageURL = objectKey
	} else {
		previousKey = exercise.VideoURL
		videoURL = objectKey
	}

	if _, err := h.exerciseService.SetMedia(c.Request.Context(), getCurrentUser(c), exerciseID, imageURL, videoURL); err != nil {
		h.respondExerciseError(c, err, "Failed to record media on exercise")
		return
	}

	// Replaced media leaves an orphan object behind; clean it up once the
	// new key is recorded.
	if previousKey != "" && previousKey != objectKey {
		if err := h.fileStorage.DeleteObject(c.Request.Context(), previousKey); err != nil {
			h.logger.Warn("failed to delete replaced media object",
				zap.String("key", previousKey),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, MediaUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresIn: int(storage.DefaultPresignedURLExpiry.Seconds()),
	})
}

// GetMediaDownloadURL godoc
// @Summary Get a presigned download URL for exercise media
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Param kind query string true "image or video"
// @Success 200 {object} gin.H "download_url and expires_in"
// @Failure 400 {object} gin.H "Invalid kind"
// @Failure 404 {object} gin.H "Exercise or media not found"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /exercises/{id}/media [get]
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	if h.fileStorage == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	kind := c.Query("kind")
	if kind != "image" && kind != "video" {
		abortWithError(c, http.StatusBadRequest, "kind must be image or video")
		return
	}

	exercise, err := h.exerciseService.GetByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise")
		}
		return
	}

	objectKey := exercise.ImageURL
	if kind == "video" {
		objectKey = exercise.VideoURL
	}
	if objectKey == "" {
		abortWithError(c, http.StatusNotFound, "Exercise has no "+kind+" media")
		return
	}

	downloadURL, err := h.fileStorage.GeneratePresignedDownloadURL(c.Request.Context(), objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"download_url": downloadURL,
		"expires_in":   int(storage.DefaultPresignedURLExpiry.Seconds()),
	})
}

func (h *ExerciseHandler) respondExerciseError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAdminRequired):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseNameTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
