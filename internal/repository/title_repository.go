package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/orazbekov/ratehub/internal/models"
)

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// Create persists the title together with its genre memberships.
func (r *TitleRepository) Create(title *models.Title) error {
	return r.db.Create(title).Error
}

func (r *TitleRepository) GetByID(id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.Preload("Category").Preload("Genres").First(&title, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &title, nil
}

func (r *TitleRepository) List() ([]models.Title, error) {
	var titles []models.Title
	err := r.db.Preload("Category").Preload("Genres").Order("name ASC").Find(&titles).Error
	return titles, err
}

// Update saves scalar fields and replaces the genre set.
func (r *TitleRepository) Update(title *models.Title) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Save(title).Error; err != nil {
			return err
		}
		return tx.Model(title).Association("Genres").Replace(title.Genres)
	})
}

// Delete removes the title and everything owned by it: reviews, their
// comments and the genre membership rows.
func (r *TitleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(
			"review_id IN (?)",
			tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id),
		).Delete(&models.Comment{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Title{}, id).Error
	})
}
