// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"bookclub/internal/authz"
	"bookclub/internal/cache"
	"bookclub/internal/config"
	"bookclub/internal/database"
	"bookclub/internal/middleware"
	"bookclub/internal/models"
	"bookclub/internal/repository"
	"bookclub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	capabilities   *authz.Table

	userRepo         repository.UserRepository
	followRepo       repository.FollowRepository
	bookRepo         repository.BookRepository
	authorRepo       repository.AuthorRepository
	libraryRepo      repository.LibraryRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	notificationRepo repository.NotificationRepository

	userService         *service.UserService
	bookService         *service.BookService
	authorService       *service.AuthorService
	libraryService      *service.LibraryService
	postService         *service.PostService
	commentService      *service.CommentService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg, redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("bookclub-api"),
		capabilities:   authz.MustLoad(),

		userRepo:         repository.NewUserRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		bookRepo:         repository.NewBookRepository(db),
		authorRepo:       repository.NewAuthorRepository(db),
		libraryRepo:      repository.NewLibraryRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}

	s.userService = service.NewUserService(s.userRepo, s.followRepo)
	s.bookService = service.NewBookService(s.bookRepo, s.authorRepo)
	s.authorService = service.NewAuthorService(s.authorRepo)
	s.libraryService = service.NewLibraryService(s.libraryRepo, s.bookRepo, s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.notificationRepo, s.isAdminByUserID)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.notificationRepo, s.isAdminByUserID)
	s.notificationService = service.NewNotificationService(s.notificationRepo)

	return s, nil
}

// Shutdown releases the server's external resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)
	auth.Get("/me", middleware.AuthRequired, s.Me)

	// Catalog routes follow the legacy URL shapes: collection reads are
	// public, writes live under verb-prefixed paths gated by capability.
	books := api.Group("/books")
	books.Get("/", middleware.OptionalAuth, s.GetBooks)
	books.Post("/create", middleware.AuthRequired, s.RequireCapability(authz.CapCreate), s.CreateBook)
	books.Put("/update/:id", middleware.AuthRequired, s.RequireCapability(authz.CapEdit), s.UpdateBook)
	books.Patch("/update/:id", middleware.AuthRequired, s.RequireCapability(authz.CapEdit), s.PatchBook)
	books.Delete("/delete/:id", middleware.AuthRequired, s.RequireCapability(authz.CapDelete), s.DeleteBook)
	books.Get("/:id", middleware.OptionalAuth, s.GetBook)

	authors := api.Group("/authors")
	authors.Get("/", s.GetAuthors)
	authors.Post("/", middleware.AuthRequired, s.RequireCapability(authz.CapCreate), s.CreateAuthor)
	authors.Put("/:id", middleware.AuthRequired, s.RequireCapability(authz.CapEdit), s.UpdateAuthor)
	authors.Delete("/:id", middleware.AuthRequired, s.RequireCapability(authz.CapDelete), s.DeleteAuthor)
	authors.Get("/:id", s.GetAuthor)

	libraries := api.Group("/libraries")
	libraries.Get("/", s.GetLibraries)
	libraries.Post("/", middleware.AuthRequired, s.RequireCapability(authz.CapCreate), s.CreateLibrary)
	libraries.Put("/:id", middleware.AuthRequired, s.RequireCapability(authz.CapEdit), s.UpdateLibrary)
	libraries.Delete("/:id", middleware.AuthRequired, s.RequireCapability(authz.CapDelete), s.DeleteLibrary)
	libraries.Post("/:id/books/:bookId", middleware.AuthRequired, s.RequireCapability(authz.CapEdit), s.AddLibraryBook)
	libraries.Delete("/:id/books/:bookId", middleware.AuthRequired, s.RequireCapability(authz.CapEdit), s.RemoveLibraryBook)
	libraries.Post("/:id/librarian/:userId", middleware.AuthRequired, s.AdminRequired, s.AssignLibrarian)
	libraries.Get("/:id/librarian", s.GetLibrarian)
	libraries.Get("/:id", s.GetLibrary)

	// Social routes
	posts := api.Group("/posts")
	posts.Get("/", middleware.OptionalAuth, s.GetPosts)
	posts.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", middleware.AuthRequired, s.LikePost)
	posts.Post("/:id/unlike", middleware.AuthRequired, s.UnlikePost)
	posts.Get("/:id/comments", middleware.OptionalAuth, s.GetComments)
	posts.Post("/:id/comments", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/comments/:commentId", middleware.AuthRequired, s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", middleware.AuthRequired, s.DeleteComment)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)
	posts.Get("/:id", middleware.OptionalAuth, s.GetPost)

	// Follow graph and feed
	api.Post("/follow/:userId", middleware.AuthRequired, s.FollowUser)
	api.Post("/unfollow/:userId", middleware.AuthRequired, s.UnfollowUser)
	api.Get("/feed", middleware.AuthRequired, s.Feed)

	users := api.Group("/users")
	users.Get("/", middleware.AuthRequired, s.GetUsers)
	users.Put("/me", middleware.AuthRequired, s.UpdateMyProfile)
	users.Get("/:id/posts", middleware.OptionalAuth, s.GetUserPosts)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id", middleware.OptionalAuth, s.GetUser)

	// Notifications
	notifications := api.Group("/notifications", middleware.AuthRequired)
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread-count", s.GetUnreadCount)
	notifications.Post("/read-all", s.MarkAllNotificationsRead)
	notifications.Post("/:id/read", s.MarkNotificationRead)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// RequireCapability returns middleware that checks the caller's role against
// the capability table for the catalog resource. Must be placed after
// AuthRequired so that userID is available in locals.
func (s *Server) RequireCapability(cap authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		role, err := s.userRepo.GetRole(c.Context(), userID)
		if err != nil {
			return models.RespondAppError(c, err)
		}
		if !s.capabilities.Allows(role, authz.ResourceBooks, cap) {
			return models.RespondAppError(c,
				models.NewForbiddenError("You do not have permission to perform this action"))
		}
		return c.Next()
	}
}

// AdminRequired rejects non-admin users with 403. Must be placed after
// AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	admin, err := s.isAdminByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	if !admin {
		return models.RespondAppError(c,
			models.NewForbiddenError("Admin access required"))
	}
	return c.Next()
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	role, err := s.userRepo.GetRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}
