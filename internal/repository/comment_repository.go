package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/orazbekov/ratehub/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(reviewID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").
		Where("review_id = ?", reviewID).
		First(&comment, commentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &comment, nil
}

func (r *CommentRepository) ListByReview(reviewID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *CommentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *CommentRepository) CountByReview(reviewID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&count).Error
	return count, err
}
