package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/orazbekov/ratehub/internal/models"
)

// CatalogRepository manages categories and genres. Both are identified by
// slug and weakly referenced by titles: deleting one never deletes a title.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("slug ASC").Find(&categories).Error
	return categories, err
}

func (r *CatalogRepository) GetCategoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &category, nil
}

// DeleteCategory removes the category and clears the reference on any title
// that pointed at it. Titles themselves survive.
func (r *CatalogRepository) DeleteCategory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Title{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

func (r *CatalogRepository) CreateGenre(genre *models.Genre) error {
	return r.db.Create(genre).Error
}

func (r *CatalogRepository) ListGenres() ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Order("slug ASC").Find(&genres).Error
	return genres, err
}

func (r *CatalogRepository) GetGenreBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("slug = ?", slug).First(&genre).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &genre, nil
}

// GetGenresBySlugs resolves a slug list in one query. The caller detects
// unresolvable slugs by comparing lengths.
func (r *CatalogRepository) GetGenresBySlugs(slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	err := r.db.Where("slug IN ?", slugs).Find(&genres).Error
	return genres, err
}

// DeleteGenre removes the genre and its membership rows; titles keep their
// remaining genres.
func (r *CatalogRepository) DeleteGenre(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Genre{}, id).Error
	})
}
