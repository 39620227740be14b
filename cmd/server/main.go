package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/orazbekov/ratehub/internal/audit"
	"github.com/orazbekov/ratehub/internal/broker"
	"github.com/orazbekov/ratehub/internal/config"
	"github.com/orazbekov/ratehub/internal/database"
	"github.com/orazbekov/ratehub/internal/handler"
	"github.com/orazbekov/ratehub/internal/mailer"
	"github.com/orazbekov/ratehub/internal/middleware"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/internal/service"
	"github.com/orazbekov/ratehub/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Moderation audit trail
	trail, err := audit.NewTrail(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit trail: %v", err)
	}
	defer trail.Close()

	// Review event broker (live feed)
	events, err := broker.NewRedisReviewEvents(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize review event broker: %v", err)
	}
	defer events.Close()

	// Confirmation-code sink
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	} else {
		mail = mailer.NewLogMailer()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, mail, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepo, trail)
	catalogService := service.NewCatalogService(catalogRepo, titleRepo, reviewRepo)
	reviewService := service.NewReviewService(titleRepo, reviewRepo, commentRepo, events, trail)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	streamHandler, err := handler.NewStreamHandler(events)
	if err != nil {
		log.Fatalf("Failed to start review feed: %v", err)
	}

	// Rate limiter
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rateLimiter := middleware.NewRateLimiter(redis.NewClient(redisOpt), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(rateLimiter.Middleware())

	v1 := router.Group("/api/v1")

	// Auth
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/token", authHandler.Token)

	// Public reads
	v1.GET("/categories", catalogHandler.ListCategories)
	v1.GET("/genres", catalogHandler.ListGenres)
	v1.GET("/titles", catalogHandler.ListTitles)
	v1.GET("/titles/:title_id", catalogHandler.GetTitle)
	v1.GET("/titles/:title_id/reviews", reviewHandler.ListReviews)
	v1.GET("/titles/:title_id/reviews/:review_id", reviewHandler.GetReview)
	v1.GET("/titles/:title_id/reviews/:review_id/comments", reviewHandler.ListComments)
	v1.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", reviewHandler.GetComment)
	v1.GET("/reviews/stream", streamHandler.Stream)

	// Authenticated content mutation
	authed := v1.Group("")
	authed.Use(middleware.Authenticate(cfg.JWTSecret))
	{
		authed.POST("/titles/:title_id/reviews", reviewHandler.CreateReview)
		authed.PATCH("/titles/:title_id/reviews/:review_id", reviewHandler.UpdateReview)
		authed.DELETE("/titles/:title_id/reviews/:review_id", reviewHandler.DeleteReview)
		authed.POST("/titles/:title_id/reviews/:review_id/comments", reviewHandler.CreateComment)
		authed.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id", reviewHandler.UpdateComment)
		authed.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id", reviewHandler.DeleteComment)

		authed.GET("/users/me", userHandler.GetMe)
		authed.PATCH("/users/me", userHandler.UpdateMe)
	}

	// Admin surface
	admin := v1.Group("")
	admin.Use(middleware.Authenticate(cfg.JWTSecret), middleware.RequireAdmin())
	{
		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.DELETE("/categories/:slug", catalogHandler.DeleteCategory)
		admin.POST("/genres", catalogHandler.CreateGenre)
		admin.DELETE("/genres/:slug", catalogHandler.DeleteGenre)
		admin.POST("/titles", catalogHandler.CreateTitle)
		admin.PATCH("/titles/:title_id", catalogHandler.UpdateTitle)
		admin.DELETE("/titles/:title_id", catalogHandler.DeleteTitle)

		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.GET("/users/:username", userHandler.Get)
		admin.PATCH("/users/:username", userHandler.Update)
		admin.DELETE("/users/:username", userHandler.Delete)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
