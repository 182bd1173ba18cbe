package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var (
	ErrTitleNotFound = errors.New("title not found")
	ErrUnknownSlug   = errors.New("unknown genre or category slug")
	ErrBadYear       = errors.New("year must be between 1 and the current year")
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	genreRepo    *repository.GenreRepo
	categoryRepo *repository.CategoryRepo
	titleCache   *cache.TitleCache
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	genreRepo *repository.GenreRepo,
	categoryRepo *repository.CategoryRepo,
	titleCache *cache.TitleCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
		titleCache:   titleCache,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	cacheKey := listCacheKey(filter, page, pageSize)
	if cached, ok := s.titleCache.GetList(ctx, cacheKey); ok {
		return cached, nil
	}

	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}

	resp := dto.NewPaginated(responses, int(total), page, pageSize)
	s.titleCache.SetList(ctx, cacheKey, resp)
	return resp, nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	if cached, ok := s.titleCache.GetTitle(ctx, id); ok {
		return cached, nil
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	resp := dto.FromModelToTitleResponse(title)
	s.titleCache.SetTitle(ctx, id, resp)
	return resp, nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
		Genres:      genres,
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	s.titleCache.InvalidateLists(ctx)

	// Reload to pick up the category object and the (empty) rating.
	created, err := s.titleRepo.GetByID(ctx, title.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(created), nil
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if req.Year != nil {
		if err := validateYear(req.Year); err != nil {
			return nil, err
		}
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	// Resolve every slug before touching anything so a bad reference
	// leaves the title fully unchanged.
	var genres []models.Genre
	if req.Genre != nil {
		genres, err = s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.UpdateWithGenres(ctx, title, genres, req.Genre != nil); err != nil {
		return nil, err
	}

	s.titleCache.InvalidateTitle(ctx, id)

	updated, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(updated), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	s.titleCache.InvalidateTitle(ctx, id)
	return nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrUnknownSlug
	}
	return genres, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*int64, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetBySlug(ctx, *slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSlug
		}
		return nil, err
	}
	return &category.ID, nil
}

func validateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < 1 || *year > time.Now().Year() {
		return ErrBadYear
	}
	return nil
}

func listCacheKey(filter repository.TitleFilter, page, pageSize int) string {
	year := ""
	if filter.Year != nil {
		year = fmt.Sprintf("%d", *filter.Year)
	}
	return fmt.Sprintf("g=%s&c=%s&y=%s&n=%s&p=%d&s=%d",
		filter.GenreSlug, filter.CategorySlug, year, filter.Name, page, pageSize)
}
