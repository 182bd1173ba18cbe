package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/models"
)

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	GenreSlug    string
	CategorySlug string
	Year         *int
	Name         string
}

type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	UpdateWithGenres(ctx context.Context, title *models.Title, genres []models.Genre, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

// ratingSelect attaches the mean review score to each row at read time.
// Nothing is persisted; NULL scans into a nil Rating when a title has no
// reviews yet.
const ratingSelect = "titles.*, (SELECT AVG(score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Select(ratingSelect).
		Preload("Genres").
		Preload("Category").
		First(&title, "titles.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Title{})
	if filter.GenreSlug != "" {
		base = base.
			Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres g ON g.id = tg.genre_id").
			Where("g.slug = ?", filter.GenreSlug)
	}
	if filter.CategorySlug != "" {
		base = base.
			Joins("JOIN categories c ON c.id = titles.category_id").
			Where("c.slug = ?", filter.CategorySlug)
	}
	if filter.Year != nil {
		base = base.Where("titles.year = ?", *filter.Year)
	}
	if filter.Name != "" {
		base = base.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := base.Session(&gorm.Session{}).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	offset := (page - 1) * pageSize
	err := base.
		Select(ratingSelect).
		Preload("Genres").
		Preload("Category").
		Order("titles.name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}

	return titles, total, nil
}

// UpdateWithGenres writes the scalar columns and, when replaceGenres is set,
// swaps the genre associations, all inside one transaction so a failed
// replacement leaves the scalar columns untouched.
func (r *titleRepository) UpdateWithGenres(ctx context.Context, title *models.Title, genres []models.Genre, replaceGenres bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Explicit column list so clearing Year/Description/CategoryID persists.
		err := tx.Model(title).
			Select("name", "year", "description", "category_id").
			Updates(map[string]interface{}{
				"name":        title.Name,
				"year":        title.Year,
				"description": title.Description,
				"category_id": title.CategoryID,
			}).Error
		if err != nil {
			return err
		}
		if replaceGenres {
			return tx.Model(title).Association("Genres").Replace(genres)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
