package service

import (
	"math"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/pkg/logger"
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// TitleInput carries the client-supplied fields of a title. Category and
// genres arrive as slugs and are resolved against the catalog.
type TitleInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// RatedTitle pairs a title with its computed rating. Rating is nil when
// the title has no reviews.
type RatedTitle struct {
	Title  models.Title
	Rating *float64
}

type CatalogService struct {
	catalogRepo *repository.CatalogRepository
	titleRepo   *repository.TitleRepository
	reviewRepo  *repository.ReviewRepository
}

func NewCatalogService(
	catalogRepo *repository.CatalogRepository,
	titleRepo *repository.TitleRepository,
	reviewRepo *repository.ReviewRepository,
) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		titleRepo:   titleRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *CatalogService) CreateCategory(name, slug string) (*models.Category, error) {
	if err := validateNameSlug(name, slug); err != nil {
		return nil, err
	}

	existing, err := s.catalogRepo.GetCategoryBySlug(slug)
	if err != nil {
		return nil, apperr.Internal("failed to check category slug", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("category slug already exists")
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.catalogRepo.CreateCategory(category); err != nil {
		return nil, apperr.Internal("failed to create category", err)
	}

	logger.Log.Info("Category created", zap.String("slug", slug))
	return category, nil
}

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	categories, err := s.catalogRepo.ListCategories()
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	return categories, nil
}

// DeleteCategory removes a category; titles referencing it keep existing
// with an absent category.
func (s *CatalogService) DeleteCategory(slug string) error {
	category, err := s.catalogRepo.GetCategoryBySlug(slug)
	if err != nil {
		return apperr.Internal("failed to look up category", err)
	}
	if category == nil {
		return apperr.NotFound("category not found")
	}

	if err := s.catalogRepo.DeleteCategory(category.ID); err != nil {
		return apperr.Internal("failed to delete category", err)
	}

	logger.Log.Info("Category deleted", zap.String("slug", slug))
	return nil
}

func (s *CatalogService) CreateGenre(name, slug string) (*models.Genre, error) {
	if err := validateNameSlug(name, slug); err != nil {
		return nil, err
	}

	existing, err := s.catalogRepo.GetGenreBySlug(slug)
	if err != nil {
		return nil, apperr.Internal("failed to check genre slug", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("genre slug already exists")
	}

	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.catalogRepo.CreateGenre(genre); err != nil {
		return nil, apperr.Internal("failed to create genre", err)
	}

	logger.Log.Info("Genre created", zap.String("slug", slug))
	return genre, nil
}

func (s *CatalogService) ListGenres() ([]models.Genre, error) {
	genres, err := s.catalogRepo.ListGenres()
	if err != nil {
		return nil, apperr.Internal("failed to list genres", err)
	}
	return genres, nil
}

// DeleteGenre removes a genre; titles drop it from their genre set.
func (s *CatalogService) DeleteGenre(slug string) error {
	genre, err := s.catalogRepo.GetGenreBySlug(slug)
	if err != nil {
		return apperr.Internal("failed to look up genre", err)
	}
	if genre == nil {
		return apperr.NotFound("genre not found")
	}

	if err := s.catalogRepo.DeleteGenre(genre.ID); err != nil {
		return apperr.Internal("failed to delete genre", err)
	}

	logger.Log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}

// CreateTitle validates the year, resolves slugs and persists the title.
func (s *CatalogService) CreateTitle(input TitleInput) (*models.Title, error) {
	if err := validateTitleInput(input); err != nil {
		logger.Log.Warn("Title validation failed",
			zap.String("name", input.Name),
			zap.Int("year", input.Year),
			zap.Error(err),
		)
		return nil, err
	}

	title := &models.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if err := s.resolveRelations(title, input); err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(title); err != nil {
		return nil, apperr.Internal("failed to create title", err)
	}

	logger.Log.Info("Title created",
		zap.Uint("title_id", title.ID),
		zap.String("name", title.Name),
	)

	return s.getTitle(title.ID)
}

// UpdateTitle replaces the client-supplied fields of an existing title.
func (s *CatalogService) UpdateTitle(id uint, input TitleInput) (*models.Title, error) {
	title, err := s.getTitle(id)
	if err != nil {
		return nil, err
	}

	if err := validateTitleInput(input); err != nil {
		return nil, err
	}

	title.Name = input.Name
	title.Year = input.Year
	title.Description = input.Description
	title.CategoryID = nil
	title.Category = nil
	title.Genres = nil

	if err := s.resolveRelations(title, input); err != nil {
		return nil, err
	}

	if err := s.titleRepo.Update(title); err != nil {
		return nil, apperr.Internal("failed to update title", err)
	}

	return s.getTitle(id)
}

func (s *CatalogService) DeleteTitle(id uint) error {
	if _, err := s.getTitle(id); err != nil {
		return err
	}

	if err := s.titleRepo.Delete(id); err != nil {
		return apperr.Internal("failed to delete title", err)
	}

	logger.Log.Info("Title deleted", zap.Uint("title_id", id))
	return nil
}

// GetTitle returns a title with its rating.
func (s *CatalogService) GetTitle(id uint) (*RatedTitle, error) {
	title, err := s.getTitle(id)
	if err != nil {
		return nil, err
	}

	rating, err := s.ComputeRating(id)
	if err != nil {
		return nil, err
	}

	return &RatedTitle{Title: *title, Rating: rating}, nil
}

// ListTitles returns all titles with ratings computed in one grouped query.
func (s *CatalogService) ListTitles() ([]RatedTitle, error) {
	titles, err := s.titleRepo.List()
	if err != nil {
		return nil, apperr.Internal("failed to list titles", err)
	}

	ids := make([]uint, len(titles))
	for i, title := range titles {
		ids[i] = title.ID
	}

	averages, err := s.reviewRepo.AverageScores(ids)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate ratings", err)
	}

	rated := make([]RatedTitle, len(titles))
	for i, title := range titles {
		rated[i] = RatedTitle{Title: title}
		if avg, ok := averages[title.ID]; ok {
			rounded := roundRating(avg)
			rated[i].Rating = &rounded
		}
	}

	return rated, nil
}

// ComputeRating returns the average review score rounded to one decimal
// place, or nil when the title has no reviews. Zero is never returned as
// a stand-in for "no rating".
func (s *CatalogService) ComputeRating(titleID uint) (*float64, error) {
	avg, ok, err := s.reviewRepo.AverageScore(titleID)
	if err != nil {
		return nil, apperr.Internal("failed to compute rating", err)
	}
	if !ok {
		return nil, nil
	}

	rounded := roundRating(avg)
	return &rounded, nil
}

func (s *CatalogService) getTitle(id uint) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		return nil, apperr.Internal("failed to look up title", err)
	}
	if title == nil {
		return nil, apperr.NotFound("title not found")
	}
	return title, nil
}

func (s *CatalogService) resolveRelations(title *models.Title, input TitleInput) error {
	if input.CategorySlug != "" {
		category, err := s.catalogRepo.GetCategoryBySlug(input.CategorySlug)
		if err != nil {
			return apperr.Internal("failed to resolve category", err)
		}
		if category == nil {
			return apperr.NotFound("category not found: " + input.CategorySlug)
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if len(input.GenreSlugs) > 0 {
		genres, err := s.catalogRepo.GetGenresBySlugs(input.GenreSlugs)
		if err != nil {
			return apperr.Internal("failed to resolve genres", err)
		}
		if len(genres) != len(uniqueSlugs(input.GenreSlugs)) {
			return apperr.NotFound("one or more genres not found")
		}
		title.Genres = genres
	}

	return nil
}

func validateTitleInput(input TitleInput) error {
	if input.Name == "" {
		return apperr.Validation("name is required")
	}
	if len(input.Name) > 200 {
		return apperr.Validation("name must be at most 200 characters")
	}
	currentYear := time.Now().Year()
	if input.Year < 1 || input.Year > currentYear {
		return apperr.Validation("year must be between 1 and the current year")
	}
	return nil
}

func validateNameSlug(name, slug string) error {
	if name == "" {
		return apperr.Validation("name is required")
	}
	if slug == "" {
		return apperr.Validation("slug is required")
	}
	if len(slug) > 50 {
		return apperr.Validation("slug must be at most 50 characters")
	}
	if !slugRegex.MatchString(slug) {
		return apperr.Validation("slug may contain only letters, numbers, hyphens and underscores")
	}
	return nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func uniqueSlugs(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	unique := slugs[:0:0]
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		unique = append(unique, slug)
	}
	return unique
}
