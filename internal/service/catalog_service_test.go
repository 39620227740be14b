package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/internal/service"
	"github.com/orazbekov/ratehub/internal/testutil"
	"github.com/orazbekov/ratehub/pkg/logger"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	testDB         *testutil.TestDatabase
	catalogService *service.CatalogService
}

func (s *CatalogServiceTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	catalogRepo := repository.NewCatalogRepository(s.testDB.DB)
	titleRepo := repository.NewTitleRepository(s.testDB.DB)
	reviewRepo := repository.NewReviewRepository(s.testDB.DB)
	s.catalogService = service.NewCatalogService(catalogRepo, titleRepo, reviewRepo)
}

func (s *CatalogServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *CatalogServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *CatalogServiceTestSuite) TestCreateCategory() {
	category, err := s.catalogService.CreateCategory("Movies", "movies")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "movies", category.Slug)

	// Duplicate slug
	_, err = s.catalogService.CreateCategory("Films", "movies")
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindConflict))

	// Malformed slug
	_, err = s.catalogService.CreateCategory("Books", "bad slug!")
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindValidation))
}

func (s *CatalogServiceTestSuite) TestCreateGenre_DuplicateSlug() {
	_, err := s.catalogService.CreateGenre("Drama", "drama")
	require.NoError(s.T(), err)

	_, err = s.catalogService.CreateGenre("Dramatic", "drama")
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindConflict))
}

func (s *CatalogServiceTestSuite) TestCreateTitle_YearBounds() {
	currentYear := time.Now().Year()

	_, err := s.catalogService.CreateTitle(service.TitleInput{Name: "Too Early", Year: 0})
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindValidation))

	_, err = s.catalogService.CreateTitle(service.TitleInput{Name: "Too Late", Year: currentYear + 1})
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindValidation))

	// Current year is inclusive
	title, err := s.catalogService.CreateTitle(service.TitleInput{Name: "This Year", Year: currentYear})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), currentYear, title.Year)
}

func (s *CatalogServiceTestSuite) TestCreateTitle_ResolvesRelations() {
	_, err := s.catalogService.CreateCategory("Movies", "movies")
	require.NoError(s.T(), err)
	_, err = s.catalogService.CreateGenre("Drama", "drama")
	require.NoError(s.T(), err)
	_, err = s.catalogService.CreateGenre("Comedy", "comedy")
	require.NoError(s.T(), err)

	title, err := s.catalogService.CreateTitle(service.TitleInput{
		Name:         "Some Film",
		Year:         1999,
		CategorySlug: "movies",
		GenreSlugs:   []string{"drama", "comedy"},
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), title.Category)
	assert.Equal(s.T(), "movies", title.Category.Slug)
	assert.Len(s.T(), title.Genres, 2)
}

func (s *CatalogServiceTestSuite) TestCreateTitle_UnknownSlugs() {
	_, err := s.catalogService.CreateTitle(service.TitleInput{
		Name:         "Orphan",
		Year:         1999,
		CategorySlug: "missing",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindNotFound))

	_, err = s.catalogService.CreateTitle(service.TitleInput{
		Name:       "Orphan",
		Year:       1999,
		GenreSlugs: []string{"missing"},
	})
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindNotFound))
}

func (s *CatalogServiceTestSuite) TestDeleteCategory_TitleSurvives() {
	_, err := s.catalogService.CreateCategory("Movies", "movies")
	require.NoError(s.T(), err)

	title, err := s.catalogService.CreateTitle(service.TitleInput{
		Name:         "Some Film",
		Year:         1999,
		CategorySlug: "movies",
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.catalogService.DeleteCategory("movies"))

	reloaded, err := s.catalogService.GetTitle(title.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), reloaded.Title.Category, "Deleting a category must not delete its titles")
	assert.Nil(s.T(), reloaded.Title.CategoryID)
}

func (s *CatalogServiceTestSuite) TestDeleteGenre_RemovedFromTitles() {
	_, err := s.catalogService.CreateGenre("Drama", "drama")
	require.NoError(s.T(), err)
	_, err = s.catalogService.CreateGenre("Comedy", "comedy")
	require.NoError(s.T(), err)

	title, err := s.catalogService.CreateTitle(service.TitleInput{
		Name:       "Some Film",
		Year:       1999,
		GenreSlugs: []string{"drama", "comedy"},
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.catalogService.DeleteGenre("drama"))

	reloaded, err := s.catalogService.GetTitle(title.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), reloaded.Title.Genres, 1)
	assert.Equal(s.T(), "comedy", reloaded.Title.Genres[0].Slug)
}

func (s *CatalogServiceTestSuite) seedReviews(titleID uint, scores ...int) {
	for i, score := range scores {
		user := testutil.CreateTestUser(
			"rater"+string(rune('a'+i)),
			"rater"+string(rune('a'+i))+"@example.com",
			models.RoleUser,
		)
		require.NoError(s.T(), s.testDB.DB.Create(user).Error)
		review := testutil.CreateTestReview(titleID, user.ID, score, "text")
		require.NoError(s.T(), s.testDB.DB.Create(review).Error)
	}
}

func (s *CatalogServiceTestSuite) TestComputeRating() {
	title, err := s.catalogService.CreateTitle(service.TitleInput{Name: "Rated", Year: 1999})
	require.NoError(s.T(), err)

	// No reviews: absent, not zero
	rating, err := s.catalogService.ComputeRating(title.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), rating)

	s.seedReviews(title.ID, 8, 9, 10)
	rating, err = s.catalogService.ComputeRating(title.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), rating)
	assert.InDelta(s.T(), 9.0, *rating, 0.001)
}

func (s *CatalogServiceTestSuite) TestComputeRating_OneDecimal() {
	title, err := s.catalogService.CreateTitle(service.TitleInput{Name: "Rated", Year: 1999})
	require.NoError(s.T(), err)

	s.seedReviews(title.ID, 7, 8)
	rating, err := s.catalogService.ComputeRating(title.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), rating)
	assert.InDelta(s.T(), 7.5, *rating, 0.001)
}

func (s *CatalogServiceTestSuite) TestListTitles_Ratings() {
	rated, err := s.catalogService.CreateTitle(service.TitleInput{Name: "Rated", Year: 1999})
	require.NoError(s.T(), err)
	_, err = s.catalogService.CreateTitle(service.TitleInput{Name: "Unrated", Year: 1999})
	require.NoError(s.T(), err)

	s.seedReviews(rated.ID, 6, 7)

	titles, err := s.catalogService.ListTitles()
	require.NoError(s.T(), err)
	require.Len(s.T(), titles, 2)

	byName := make(map[string]*float64, len(titles))
	for _, t := range titles {
		byName[t.Title.Name] = t.Rating
	}
	require.NotNil(s.T(), byName["Rated"])
	assert.InDelta(s.T(), 6.5, *byName["Rated"], 0.001)
	assert.Nil(s.T(), byName["Unrated"])
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
