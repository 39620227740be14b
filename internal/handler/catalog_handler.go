package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

type NameSlugRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

type TitleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// titleResponse flattens a rated title; rating is null with no reviews.
type titleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description string           `json:"description"`
	Category    *models.Category `json:"category"`
	Genres      []models.Genre   `json:"genres"`
}

func toTitleResponse(rated *service.RatedTitle) titleResponse {
	return titleResponse{
		ID:          rated.Title.ID,
		Name:        rated.Title.Name,
		Year:        rated.Title.Year,
		Rating:      rated.Rating,
		Description: rated.Title.Description,
		Category:    rated.Title.Category,
		Genres:      rated.Title.Genres,
	}
}

// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// POST /api/v1/categories (admin)
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req NameSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	category, err := h.catalogService.CreateCategory(req.Name, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// DELETE /api/v1/categories/:slug (admin)
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/genres
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalogService.ListGenres()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// POST /api/v1/genres (admin)
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req NameSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	genre, err := h.catalogService.CreateGenre(req.Name, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, genre)
}

// DELETE /api/v1/genres/:slug (admin)
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	if err := h.catalogService.DeleteGenre(c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/titles
func (h *CatalogHandler) ListTitles(c *gin.Context) {
	rated, err := h.catalogService.ListTitles()
	if err != nil {
		respondError(c, err)
		return
	}

	titles := make([]titleResponse, len(rated))
	for i := range rated {
		titles[i] = toTitleResponse(&rated[i])
	}

	c.JSON(http.StatusOK, gin.H{"titles": titles})
}

// GET /api/v1/titles/:title_id
func (h *CatalogHandler) GetTitle(c *gin.Context) {
	id, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}

	rated, err := h.catalogService.GetTitle(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTitleResponse(rated))
}

// POST /api/v1/titles (admin)
func (h *CatalogHandler) CreateTitle(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title, err := h.catalogService.CreateTitle(service.TitleInput{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genre,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	rated, err := h.catalogService.GetTitle(title.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTitleResponse(rated))
}

// PATCH /api/v1/titles/:title_id (admin)
func (h *CatalogHandler) UpdateTitle(c *gin.Context) {
	id, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}

	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.catalogService.UpdateTitle(id, service.TitleInput{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genre,
	}); err != nil {
		respondError(c, err)
		return
	}

	rated, err := h.catalogService.GetTitle(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTitleResponse(rated))
}

// DELETE /api/v1/titles/:title_id (admin)
func (h *CatalogHandler) DeleteTitle(c *gin.Context) {
	id, ok := uintParam(c, "title_id")
	if !ok {
		respondError(c, apperr.NotFound("title not found"))
		return
	}

	if err := h.catalogService.DeleteTitle(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
