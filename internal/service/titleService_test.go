package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

func intPtr(i int) *int { return &i }

func TestTitleGetByID_Success(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	rating := 7.5
	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{
		ID:     1,
		Name:   "Dune",
		Year:   intPtr(1965),
		Rating: &rating,
		Genres: []models.Genre{{ID: 1, Name: "Sci-Fi", Slug: "sci-fi"}},
	}, nil)

	resp, err := titleService.GetByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "Dune", resp.Name)
	assert.Equal(t, 7.5, *resp.Rating)
	assert.Len(t, resp.Genre, 1)
	mockTitleRepo.AssertExpectations(t)
}

func TestTitleGetByID_UnratedHasNilRating(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	mockTitleRepo.On("GetByID", mock.Anything, int64(2)).Return(&models.Title{ID: 2, Name: "Fresh"}, nil)

	resp, err := titleService.GetByID(context.Background(), 2)

	assert.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestTitleGetByID_NotFound(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	mockTitleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := titleService.GetByID(context.Background(), 99)

	assert.Equal(t, ErrTitleNotFound, err)
	assert.Nil(t, resp)
}

func TestTitleList_ForwardsFilter(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	filter := repository.TitleFilter{GenreSlug: "sci-fi", Year: intPtr(1965)}
	mockTitleRepo.On("List", mock.Anything, filter, 1, 20).Return([]models.Title{
		{ID: 1, Name: "Dune", Year: intPtr(1965)},
	}, int64(1), nil)

	resp, err := titleService.List(context.Background(), filter, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Total)
	mockTitleRepo.AssertExpectations(t)
}

func TestTitleUpdate_ScalarPatchSkipsGenreReplacement(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	title := &models.Title{ID: 5, Name: "Dune", Year: intPtr(1965)}
	mockTitleRepo.On("GetByID", mock.Anything, int64(5)).Return(title, nil)
	mockTitleRepo.On("UpdateWithGenres", mock.Anything, title, []models.Genre(nil), false).Return(nil)

	resp, err := titleService.Update(context.Background(), 5, dto.UpdateTitleRequest{
		Name: strPtr("Dune Messiah"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Dune Messiah", resp.Name)
	mockTitleRepo.AssertExpectations(t)
}

func TestTitleUpdate_RepoFailureSurfaces(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	title := &models.Title{ID: 5, Name: "Dune"}
	mockTitleRepo.On("GetByID", mock.Anything, int64(5)).Return(title, nil)
	mockTitleRepo.On("UpdateWithGenres", mock.Anything, title, []models.Genre(nil), false).
		Return(assert.AnError)

	resp, err := titleService.Update(context.Background(), 5, dto.UpdateTitleRequest{
		Name: strPtr("Dune Messiah"),
	})

	assert.Nil(t, resp)
	assert.Equal(t, assert.AnError, err)
	mockTitleRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestTitleDelete_NotFound(t *testing.T) {
	mockTitleRepo := new(MockTitleRepository)
	titleService := NewTitleService(mockTitleRepo, nil, nil, disabledCache())

	mockTitleRepo.On("Delete", mock.Anything, int64(99)).Return(gorm.ErrRecordNotFound)

	err := titleService.Delete(context.Background(), 99)

	assert.Equal(t, ErrTitleNotFound, err)
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, validateYear(nil))
	assert.NoError(t, validateYear(intPtr(1965)))
	assert.Equal(t, ErrBadYear, validateYear(intPtr(0)))
	assert.Equal(t, ErrBadYear, validateYear(intPtr(-5)))
	assert.Equal(t, ErrBadYear, validateYear(intPtr(9999)))
}

func TestListCacheKey_DistinguishesFilters(t *testing.T) {
	base := listCacheKey(repository.TitleFilter{}, 1, 20)
	byGenre := listCacheKey(repository.TitleFilter{GenreSlug: "sci-fi"}, 1, 20)
	byYear := listCacheKey(repository.TitleFilter{Year: intPtr(1965)}, 1, 20)
	nextPage := listCacheKey(repository.TitleFilter{}, 2, 20)

	assert.NotEqual(t, base, byGenre)
	assert.NotEqual(t, base, byYear)
	assert.NotEqual(t, base, nextPage)
}
