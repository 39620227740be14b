package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orazbekov/ratehub/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a review. With TranslateError enabled a lost race on the
// (title_id, author_id) unique index surfaces as gorm.ErrDuplicatedKey.
func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// ExistsForAuthor reports whether the author already reviewed the title.
func (r *ReviewRepository) ExistsForAuthor(titleID uint, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReviewRepository) GetByID(titleID, reviewID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Author").
		Where("title_id = ?", titleID).
		First(&review, reviewID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &review, nil
}

func (r *ReviewRepository) ListByTitle(titleID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete removes the review and cascades to its comments.
func (r *ReviewRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, id).Error
	})
}

// AverageScore returns the mean review score for a title. The boolean is
// false when the title has no reviews; zero is never used as a stand-in.
func (r *ReviewRepository) AverageScore(titleID uint) (float64, bool, error) {
	var avg sql.NullFloat64
	err := r.db.Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

// AverageScores returns mean scores for many titles in one grouped query.
// Titles without reviews are absent from the map.
func (r *ReviewRepository) AverageScores(titleIDs []uint) (map[uint]float64, error) {
	averages := make(map[uint]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return averages, nil
	}

	var rows []struct {
		TitleID uint
		Avg     float64
	}
	err := r.db.Model(&models.Review{}).
		Where("title_id IN ?", titleIDs).
		Select("title_id, AVG(score) AS avg").
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		averages[row.TitleID] = row.Avg
	}
	return averages, nil
}
