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
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
)

// MockTitleService mocks the TitleService interface
type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTitleRouter(mockTitleService *MockTitleService, actor *models.User) *gin.Engine {
	router := setupRouter()
	handler := NewTitleHandler(mockTitleService)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, authAs(actor))
	return router
}

func TestTitleList_ForwardsFilters(t *testing.T) {
	mockTitleService := new(MockTitleService)
	router := newTitleRouter(mockTitleService, nil)

	year := 1965
	expectedFilter := repository.TitleFilter{GenreSlug: "sci-fi", CategorySlug: "books", Year: &year, Name: "Dune"}
	mockTitleService.On("List", mock.Anything, expectedFilter, 1, 20).Return(
		dto.NewPaginated([]dto.TitleResponse{{ID: 1, Name: "Dune"}}, 1, 1, 20), nil)

	req, _ := http.NewRequest("GET", "/api/v1/titles?genre=sci-fi&category=books&year=1965&name=Dune", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockTitleService.AssertExpectations(t)
}

func TestTitleList_BadYearFilter(t *testing.T) {
	mockTitleService := new(MockTitleService)
	router := newTitleRouter(mockTitleService, nil)

	req, _ := http.NewRequest("GET", "/api/v1/titles?year=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTitleService.AssertNotCalled(t, "List")
}

func TestTitleGet_RatingInPayload(t *testing.T) {
	mockTitleService := new(MockTitleService)
	router := newTitleRouter(mockTitleService, nil)

	rating := 7.5
	mockTitleService.On("GetByID", mock.Anything, int64(1)).Return(&dto.TitleResponse{
		ID:     1,
		Name:   "Dune",
		Rating: &rating,
		Genre:  []dto.GenreResponse{{Name: "Sci-Fi", Slug: "sci-fi"}},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/titles/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TitleResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 7.5, *response.Rating)
	assert.Len(t, response.Genre, 1)
}

func TestTitleGet_NotFound(t *testing.T) {
	mockTitleService := new(MockTitleService)
	router := newTitleRouter(mockTitleService, nil)

	mockTitleService.On("GetByID", mock.Anything, int64(99)).Return(nil, service.ErrTitleNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/titles/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTitleCreate_NonAdminForbidden(t *testing.T) {
	mockTitleService := new(MockTitleService)
	actor := &models.User{ID: "mod-id", Role: models.RoleModerator}
	router := newTitleRouter(mockTitleService, actor)

	w := postJSON(router, "/api/v1/titles", dto.CreateTitleRequest{Name: "Dune"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockTitleService.AssertNotCalled(t, "Create")
}

func TestTitleCreate_UnknownSlug(t *testing.T) {
	mockTitleService := new(MockTitleService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newTitleRouter(mockTitleService, actor)

	mockTitleService.On("Create", mock.Anything, mock.AnythingOfType("dto.CreateTitleRequest")).
		Return(nil, service.ErrUnknownSlug)

	w := postJSON(router, "/api/v1/titles", map[string]any{
		"name":  "Dune",
		"genre": []string{"no-such-genre"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTitleCreate_FutureYear(t *testing.T) {
	mockTitleService := new(MockTitleService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newTitleRouter(mockTitleService, actor)

	mockTitleService.On("Create", mock.Anything, mock.AnythingOfType("dto.CreateTitleRequest")).
		Return(nil, service.ErrBadYear)

	w := postJSON(router, "/api/v1/titles", map[string]any{
		"name": "From the future",
		"year": 9999,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTitleUpdate_Updated(t *testing.T) {
	mockTitleService := new(MockTitleService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newTitleRouter(mockTitleService, actor)

	mockTitleService.On("Update", mock.Anything, int64(1), mock.AnythingOfType("dto.UpdateTitleRequest")).
		Return(&dto.TitleResponse{ID: 1, Name: "Dune Messiah"}, nil)

	w := patchJSON(router, "/api/v1/titles/1", map[string]any{
		"name": "Dune Messiah",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mockTitleService.AssertExpectations(t)
}

func TestTitleDelete_NoContent(t *testing.T) {
	mockTitleService := new(MockTitleService)
	actor := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	router := newTitleRouter(mockTitleService, actor)

	mockTitleService.On("Delete", mock.Anything, int64(1)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/titles/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockTitleService.AssertExpectations(t)
}
