package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/service"
	"github.com/woodez-kubernetes/workout-api/internal/storage"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	profileService service.ProfileService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	sessionService service.SessionService,
	logService service.LogService,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) {
	authHandler := NewAuthHandler(authService, profileService, logger)
	exerciseHandler := NewExerciseHandler(exerciseService, fileStorage, logger)
	workoutHandler := NewWorkoutHandler(workoutService, logger)
	sessionHandler := NewSessionHandler(sessionService, logger)
	logHandler := NewLogHandler(logService, logger)

	authMiddleware := AuthMiddleware(authService)
	optionalAuth := OptionalAuthMiddleware(authService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "workout-api"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)

			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
			authGroup.GET("/profile", authMiddleware, authHandler.GetProfile)
			authGroup.PUT("/profile", authMiddleware, authHandler.UpdateProfile)
			authGroup.PATCH("/profile", authMiddleware, authHandler.UpdateProfile)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		// The exercise catalog is world-readable; writes are admin-only
		// and the admin check happens in the service layer.
		exerciseGroup := apiV1.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.GET("/:id/media", exerciseHandler.GetMediaDownloadURL)

			exerciseGroup.POST("", authMiddleware, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", authMiddleware, exerciseHandler.UpdateExercise)
			exerciseGroup.PATCH("/:id", authMiddleware, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", authMiddleware, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media", authMiddleware, exerciseHandler.RequestMediaUpload)
		}

		// Workout reads take optional auth so private workouts stay visible
		// to their owners while anonymous callers see public ones.
		workoutGroup := apiV1.Group("/workouts")
		{
			workoutGroup.GET("", optionalAuth, workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", optionalAuth, workoutHandler.GetWorkout)

			workoutGroup.POST("", authMiddleware, workoutHandler.CreateWorkout)
			workoutGroup.PUT("/:id", authMiddleware, workoutHandler.UpdateWorkout)
			workoutGroup.PATCH("/:id", authMiddleware, workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", authMiddleware, workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:id/clone", authMiddleware, workoutHandler.CloneWorkout)
		}

		sessionGroup := apiV1.Group("/sessions")
		sessionGroup.Use(authMiddleware)
		{
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PUT("/:id", sessionHandler.UpdateSession)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
			sessionGroup.POST("/:id/start", sessionHandler.StartSession)
			sessionGroup.POST("/:id/complete", sessionHandler.CompleteSession)
		}

		logGroup := apiV1.Group("/logs")
		logGroup.Use(authMiddleware)
		{
			logGroup.GET("", logHandler.ListLogs)
			logGroup.POST("", logHandler.CreateLog)
			logGroup.GET("/:id", logHandler.GetLog)
			logGroup.PUT("/:id", logHandler.UpdateLog)
			logGroup.PATCH("/:id", logHandler.UpdateLog)
			logGroup.DELETE("/:id", logHandler.DeleteLog)
		}
	}
}
