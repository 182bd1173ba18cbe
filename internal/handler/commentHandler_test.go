package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/service"
)

// MockCommentService mocks the CommentService interface
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, titleID, reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	args := m.Called(ctx, actor, titleID, reviewID, commentID)
	return args.Error(0)
}

func newCommentRouter(mockCommentService *MockCommentService, actor *models.User) *gin.Engine {
	router := setupRouter()
	handler := NewCommentHandler(mockCommentService)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, authAs(actor))
	return router
}

func TestCommentCreate_Created(t *testing.T) {
	mockCommentService := new(MockCommentService)
	actor := &models.User{ID: "author-id", Username: "commenter", Role: models.RoleUser}
	router := newCommentRouter(mockCommentService, actor)

	mockCommentService.On("Create", mock.Anything, actor, int64(1), int64(7), dto.CreateCommentRequest{
		Text: "agreed",
	}).Return(&dto.CommentResponse{ID: 3, Author: "commenter", Text: "agreed"}, nil)

	w := postJSON(router, "/api/v1/titles/1/reviews/7/comments", map[string]string{
		"text": "agreed",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.CommentResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(3), response.ID)

	mockCommentService.AssertExpectations(t)
}

func TestCommentCreate_ReviewUnderWrongTitle(t *testing.T) {
	mockCommentService := new(MockCommentService)
	actor := &models.User{ID: "author-id", Role: models.RoleUser}
	router := newCommentRouter(mockCommentService, actor)

	mockCommentService.On("Create", mock.Anything, actor, int64(2), int64(7), mock.AnythingOfType("dto.CreateCommentRequest")).
		Return(nil, service.ErrReviewNotFound)

	w := postJSON(router, "/api/v1/titles/2/reviews/7/comments", map[string]string{
		"text": "lost",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentCreate_EmptyText(t *testing.T) {
	mockCommentService := new(MockCommentService)
	actor := &models.User{ID: "author-id", Role: models.RoleUser}
	router := newCommentRouter(mockCommentService, actor)

	w := postJSON(router, "/api/v1/titles/1/reviews/7/comments", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockCommentService.AssertNotCalled(t, "Create")
}

func TestCommentList_Public(t *testing.T) {
	mockCommentService := new(MockCommentService)
	router := newCommentRouter(mockCommentService, nil)

	mockCommentService.On("List", mock.Anything, int64(1), int64(7), 1, 20).Return(
		dto.NewPaginated([]dto.CommentResponse{{ID: 3, Text: "agreed"}}, 1, 1, 20), nil)

	req, _ := http.NewRequest("GET", "/api/v1/titles/1/reviews/7/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentUpdate_Forbidden(t *testing.T) {
	mockCommentService := new(MockCommentService)
	actor := &models.User{ID: "someone-else", Role: models.RoleUser}
	router := newCommentRouter(mockCommentService, actor)

	mockCommentService.On("Update", mock.Anything, actor, int64(1), int64(7), int64(3), dto.UpdateCommentRequest{Text: "nope"}).
		Return(nil, service.ErrForbidden)

	w := patchJSON(router, "/api/v1/titles/1/reviews/7/comments/3", map[string]string{
		"text": "nope",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentDelete_NoContent(t *testing.T) {
	mockCommentService := new(MockCommentService)
	actor := &models.User{ID: "mod-id", Role: models.RoleModerator}
	router := newCommentRouter(mockCommentService, actor)

	mockCommentService.On("Delete", mock.Anything, actor, int64(1), int64(7), int64(3)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/titles/1/reviews/7/comments/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockCommentService.AssertExpectations(t)
}
