package handler

import (
	"context"
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

// MockCategoryService mocks the CategoryService interface
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CategoryResponse]), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func newCategoryRouter(mockCategoryService *MockCategoryService, actor *models.User) *gin.Engine {
	router := setupRouter()
	handler := NewCategoryHandler(mockCategoryService)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, authAs(actor))
	return router
}

func TestCategoryList_PublicWithoutAuth(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	router := newCategoryRouter(mockCategoryService, nil)

	mockCategoryService.On("List", mock.Anything, "", 1, 20).Return(
		dto.NewPaginated([]dto.CategoryResponse{{Name: "Books", Slug: "books"}}, 1, 1, 20), nil)

	req, _ := http.NewRequest("GET", "/api/v1/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCategoryService.AssertExpectations(t)
}

func TestCategoryCreate_AdminOnly(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	actor := &models.User{ID: "user-id", Role: models.RoleUser}
	router := newCategoryRouter(mockCategoryService, actor)

	w := postJSON(router, "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Books",
		Slug: "books",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockCategoryService.AssertNotCalled(t, "Create")
}

func TestCategoryCreate_Created(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newCategoryRouter(mockCategoryService, actor)

	mockCategoryService.On("Create", mock.Anything, dto.CreateCategoryRequest{
		Name: "Books",
		Slug: "books",
	}).Return(&dto.CategoryResponse{Name: "Books", Slug: "books"}, nil)

	w := postJSON(router, "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Books",
		Slug: "books",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockCategoryService.AssertExpectations(t)
}

func TestCategoryCreate_SlugTaken(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newCategoryRouter(mockCategoryService, actor)

	mockCategoryService.On("Create", mock.Anything, mock.AnythingOfType("dto.CreateCategoryRequest")).
		Return(nil, service.ErrSlugTaken)

	w := postJSON(router, "/api/v1/categories", dto.CreateCategoryRequest{
		Name: "Books again",
		Slug: "books",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryCreate_MissingSlug(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newCategoryRouter(mockCategoryService, actor)

	w := postJSON(router, "/api/v1/categories", map[string]string{"name": "Books"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockCategoryService.AssertNotCalled(t, "Create")
}

func TestCategoryDelete_NoContent(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newCategoryRouter(mockCategoryService, actor)

	mockCategoryService.On("Delete", mock.Anything, "books").Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/categories/books", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockCategoryService.AssertExpectations(t)
}

func TestCategoryDelete_NotFound(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newCategoryRouter(mockCategoryService, actor)

	mockCategoryService.On("Delete", mock.Anything, "ghost").Return(service.ErrCategoryNotFound)

	req, _ := http.NewRequest("DELETE", "/api/v1/categories/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
