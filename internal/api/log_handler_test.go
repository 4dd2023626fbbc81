package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/repository"
	"github.com/woodez-kubernetes/workout-api/internal/service"
)

type fakeLogService struct {
	ListFunc    func(ctx context.Context, actor *domain.User, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error)
	GetByIDFunc func(ctx context.Context, actor *domain.User, logID primitive.ObjectID) (*domain.ExerciseLog, error)
	CreateFunc  func(ctx context.Context, actor *domain.User, input service.LogInput) (*domain.ExerciseLog, error)
	UpdateFunc  func(ctx context.Context, actor *domain.User, logID primitive.ObjectID, update service.LogUpdate) (*domain.ExerciseLog, error)
	DeleteFunc  func(ctx context.Context, actor *domain.User, logID primitive.ObjectID) error
}

func (f *fakeLogService) List(ctx context.Context, actor *domain.User, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
	return f.ListFunc(ctx, actor, filter)
}

func (f *fakeLogService) GetByID(ctx context.Context, actor *domain.User, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	return f.GetByIDFunc(ctx, actor, logID)
}

func (f *fakeLogService) Create(ctx context.Context, actor *domain.User, input service.LogInput) (*domain.ExerciseLog, error) {
	return f.CreateFunc(ctx, actor, input)
}

func (f *fakeLogService) Update(ctx context.Context, actor *domain.User, logID primitive.ObjectID, update service.LogUpdate) (*domain.ExerciseLog, error) {
	return f.UpdateFunc(ctx, actor, logID, update)
}

func (f *fakeLogService) Delete(ctx context.Context, actor *domain.User, logID primitive.ObjectID) error {
	return f.DeleteFunc(ctx, actor, logID)
}

func logTestRouter(svc service.LogService, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	inject := func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}

	h := NewLogHandler(svc, zap.NewNop())
	router.GET("/logs", inject, h.ListLogs)
	return router
}

func TestListLogs_FilterParsing(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
	sessionID := primitive.NewObjectID()
	exerciseID := primitive.NewObjectID()

	var seen repository.LogFilter
	svc := &fakeLogService{
		ListFunc: func(ctx context.Context, actor *domain.User, filter repository.LogFilter) ([]domain.ExerciseLog, int64, error) {
			seen = filter
			return []domain.ExerciseLog{}, 0, nil
		},
	}
	router := logTestRouter(svc, user)

	req := httptest.NewRequest(http.MethodGet, "/logs?session_id="+sessionID.Hex()+"&exercise_id="+exerciseID.Hex()+"&ordering=set_number&page=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen.SessionID)
	assert.Equal(t, sessionID, *seen.SessionID)
	require.NotNil(t, seen.ExerciseID)
	assert.Equal(t, exerciseID, *seen.ExerciseID)
	assert.Equal(t, "set_number", seen.Ordering)
	assert.Equal(t, 3, seen.Page)
}

func TestListLogs_MalformedFilter(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID()}
	router := logTestRouter(&fakeLogService{}, user)

	req := httptest.NewRequest(http.MethodGet, "/logs?session_id=not-hex", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
