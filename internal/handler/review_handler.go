package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	Score int    `json:"score" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

type UpdateReviewRequest struct {
	Score *int    `json:"score"`
	Text  *string `json:"text"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}

	reviews, err := h.reviewService.ListReviews(titleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}
	reviewID, ok := uintParam(c, "review_id")
	if !ok {
		respondError(c, apperr.NotFound("review not found"))
		return
	}

	review, err := h.reviewService.GetReview(titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// POST /api/v1/titles/:title_id/reviews (authenticated)
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	review, err := h.reviewService.CreateReview(cl, titleID, req.Score, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id (author or staff)
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}
	reviewID, ok := uintParam(c, "review_id")
	if !ok {
		respondError(c, apperr.NotFound("review not found"))
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	review, err := h.reviewService.UpdateReview(cl, titleID, reviewID, req.Score, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id (author or staff)
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}
	reviewID, ok := uintParam(c, "review_id")
	if !ok {
		respondError(c, apperr.NotFound("review not found"))
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.reviewService.DeleteReview(cl, titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *ReviewHandler) ListComments(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}
	reviewID, ok := uintParam(c, "review_id")
	if !ok {
		respondError(c, apperr.NotFound("review not found"))
		return
	}

	comments, err := h.reviewService.ListComments(titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *ReviewHandler) GetComment(c *gin.Context) {
	ids, ok := commentPath(c)
	if !ok {
		return
	}

	comment, err := h.reviewService.GetComment(ids.titleID, ids.reviewID, ids.commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// POST /api/v1/titles/:title_id/reviews/:review_id/comments (authenticated)
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}
	reviewID, ok := uintParam(c, "review_id")
	if !ok {
		respondError(c, apperr.NotFound("review not found"))
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comment, err := h.reviewService.CreateComment(cl, titleID, reviewID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *ReviewHandler) UpdateComment(c *gin.Context) {
	ids, ok := commentPath(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comment, err := h.reviewService.UpdateComment(cl, ids.titleID, ids.reviewID, ids.commentID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	ids, ok := commentPath(c)
	if !ok {
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.reviewService.DeleteComment(cl, ids.titleID, ids.reviewID, ids.commentID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type commentIDs struct {
	titleID   uint
	reviewID  uint
	commentID uint
}

func commentPath(c *gin.Context) (commentIDs, bool) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return commentIDs{}, false
	}
	reviewID, ok := uintParam(c, "review_id")
	if !ok {
		respondError(c, apperr.NotFound("review not found"))
		return commentIDs{}, false
	}
	commentID, ok := uintParam(c, "comment_id")
	if !ok {
		respondError(c, apperr.NotFound("comment not found"))
		return commentIDs{}, false
	}
	return commentIDs{titleID: titleID, reviewID: reviewID, commentID: commentID}, true
}
