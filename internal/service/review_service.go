package service

import (
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/orazbekov/ratehub/internal/access"
	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/audit"
	"github.com/orazbekov/ratehub/internal/broker"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/pkg/logger"
)

// ReviewService is the admission layer for reviews and comments: it
// enforces the score range, the one-review-per-author rule and the
// author/moderator mutation permissions before anything is written.
type ReviewService struct {
	titleRepo   *repository.TitleRepository
	reviewRepo  *repository.ReviewRepository
	commentRepo *repository.CommentRepository
	events      broker.ReviewEvents
	trail       *audit.Trail
}

func NewReviewService(
	titleRepo *repository.TitleRepository,
	reviewRepo *repository.ReviewRepository,
	commentRepo *repository.CommentRepository,
	events broker.ReviewEvents,
	trail *audit.Trail,
) *ReviewService {
	return &ReviewService{
		titleRepo:   titleRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
		events:      events,
		trail:       trail,
	}
}

// CreateReview admits a new review. Author and publication date are set
// server-side; the client only supplies score and text.
func (s *ReviewService) CreateReview(caller Caller, titleID uint, score int, text string) (*models.Review, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, apperr.Validation("text is required")
	}

	title, err := s.titleRepo.GetByID(titleID)
	if err != nil {
		return nil, apperr.Internal("failed to look up title", err)
	}
	if title == nil {
		return nil, apperr.NotFound("title not found")
	}

	exists, err := s.reviewRepo.ExistsForAuthor(titleID, caller.ID)
	if err != nil {
		return nil, apperr.Internal("failed to check existing review", err)
	}
	if exists {
		logger.Log.Warn("Duplicate review rejected",
			zap.Uint("title_id", titleID),
			zap.String("author", caller.Username),
		)
		return nil, apperr.Conflict("only one review allowed per title")
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: caller.ID,
		Score:    score,
		Text:     text,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		// The unique index is the authoritative guard; a race lost between
		// the pre-check and the insert still yields a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("only one review allowed per title")
		}
		return nil, apperr.Internal("failed to create review", err)
	}

	logger.Log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("title_id", titleID),
		zap.String("author", caller.Username),
		zap.Int("score", score),
	)

	s.publishReviewEvent(review, title, caller)

	return s.reviewRepo.GetByID(titleID, review.ID)
}

// publishReviewEvent pushes the new review to the live feed. The feed is
// best-effort; a broker failure never fails the request.
func (s *ReviewService) publishReviewEvent(review *models.Review, title *models.Title, caller Caller) {
	if s.events == nil {
		return
	}
	event := broker.ReviewEvent{
		ReviewID:  review.ID,
		TitleID:   title.ID,
		TitleName: title.Name,
		Author:    caller.Username,
		Score:     review.Score,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := s.events.Publish(event); err != nil {
		logger.Log.Warn("Failed to publish review event",
			zap.Uint("review_id", review.ID),
			zap.Error(err),
		)
	}
}

func (s *ReviewService) GetReview(titleID, reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		return nil, apperr.Internal("failed to look up review", err)
	}
	if review == nil {
		return nil, apperr.NotFound("review not found")
	}
	return review, nil
}

func (s *ReviewService) ListReviews(titleID uint) ([]models.Review, error) {
	title, err := s.titleRepo.GetByID(titleID)
	if err != nil {
		return nil, apperr.Internal("failed to look up title", err)
	}
	if title == nil {
		return nil, apperr.NotFound("title not found")
	}

	reviews, err := s.reviewRepo.ListByTitle(titleID)
	if err != nil {
		return nil, apperr.Internal("failed to list reviews", err)
	}
	return reviews, nil
}

// UpdateReview edits a review. Allowed for the author and for staff; the
// uniqueness rule is checked only on create, never here.
func (s *ReviewService) UpdateReview(caller Caller, titleID, reviewID uint, score *int, text *string) (*models.Review, error) {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !access.CanMutateContent(caller.Role, review.AuthorID, caller.ID) {
		return nil, apperr.Forbidden("you may only modify your own review")
	}

	if score != nil {
		if err := validateScore(*score); err != nil {
			return nil, err
		}
		review.Score = *score
	}
	if text != nil {
		if *text == "" {
			return nil, apperr.Validation("text is required")
		}
		review.Text = *text
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, apperr.Internal("failed to update review", err)
	}

	s.recordModeration(caller, review.AuthorID != caller.ID, "update", "review", review.ID)

	return s.GetReview(titleID, reviewID)
}

// DeleteReview removes a review and its comments. Allowed for the author
// and for staff.
func (s *ReviewService) DeleteReview(caller Caller, titleID, reviewID uint) error {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return err
	}

	if !access.CanMutateContent(caller.Role, review.AuthorID, caller.ID) {
		return apperr.Forbidden("you may only delete your own review")
	}

	if err := s.reviewRepo.Delete(review.ID); err != nil {
		return apperr.Internal("failed to delete review", err)
	}

	logger.Log.Info("Review deleted",
		zap.Uint("review_id", reviewID),
		zap.String("caller", caller.Username),
	)

	s.recordModeration(caller, review.AuthorID != caller.ID, "delete", "review", review.ID)

	return nil
}

// CreateComment attaches a comment to an existing review.
func (s *ReviewService) CreateComment(caller Caller, titleID, reviewID uint, text string) (*models.Comment, error) {
	if text == "" {
		return nil, apperr.Validation("text is required")
	}
	if len(text) > 200 {
		return nil, apperr.Validation("text must be at most 200 characters")
	}

	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: caller.ID,
		Text:     text,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, apperr.Internal("failed to create comment", err)
	}

	logger.Log.Info("Comment created",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("review_id", reviewID),
		zap.String("author", caller.Username),
	)

	return s.commentRepo.GetByID(reviewID, comment.ID)
}

func (s *ReviewService) GetComment(titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(reviewID, commentID)
	if err != nil {
		return nil, apperr.Internal("failed to look up comment", err)
	}
	if comment == nil {
		return nil, apperr.NotFound("comment not found")
	}
	return comment, nil
}

func (s *ReviewService) ListComments(titleID, reviewID uint) ([]models.Comment, error) {
	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByReview(reviewID)
	if err != nil {
		return nil, apperr.Internal("failed to list comments", err)
	}
	return comments, nil
}

func (s *ReviewService) UpdateComment(caller Caller, titleID, reviewID, commentID uint, text string) (*models.Comment, error) {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !access.CanMutateContent(caller.Role, comment.AuthorID, caller.ID) {
		return nil, apperr.Forbidden("you may only modify your own comment")
	}

	if text == "" {
		return nil, apperr.Validation("text is required")
	}
	if len(text) > 200 {
		return nil, apperr.Validation("text must be at most 200 characters")
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, apperr.Internal("failed to update comment", err)
	}

	s.recordModeration(caller, comment.AuthorID != caller.ID, "update", "comment", comment.ID)

	return s.GetComment(titleID, reviewID, commentID)
}

func (s *ReviewService) DeleteComment(caller Caller, titleID, reviewID, commentID uint) error {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !access.CanMutateContent(caller.Role, comment.AuthorID, caller.ID) {
		return apperr.Forbidden("you may only delete your own comment")
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return apperr.Internal("failed to delete comment", err)
	}

	s.recordModeration(caller, comment.AuthorID != caller.ID, "delete", "comment", comment.ID)

	return nil
}

// recordModeration writes an audit entry when staff mutate content they do
// not own. Audit failures are logged, not surfaced.
func (s *ReviewService) recordModeration(caller Caller, othersContent bool, action, resource string, id uint) {
	if !othersContent || s.trail == nil {
		return
	}
	entry := audit.Entry{
		Actor:      caller.Username,
		Role:       caller.Role,
		Action:     action,
		Resource:   resource,
		ResourceID: strconv.FormatUint(uint64(id), 10),
	}
	if err := s.trail.Record(entry); err != nil {
		logger.Log.Error("Failed to record moderation action",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}

func validateScore(score int) error {
	if score < models.ScoreMin || score > models.ScoreMax {
		return apperr.Validation("score must be between 1 and 10")
	}
	return nil
}
