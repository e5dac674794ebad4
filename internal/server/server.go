// Package server contains the HTTP surface of the application: routes,
// auth gates, and handlers.
package server

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	_ "ourcircle/docs" // swagger docs
	"ourcircle/internal/bootstrap"
	"ourcircle/internal/config"
	"ourcircle/internal/geo"
	"ourcircle/internal/middleware"
	"ourcircle/internal/models"
	"ourcircle/internal/repository"
	"ourcircle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	circleRepo       repository.CircleRepository
	followRepo       repository.FollowRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	reportRepo       repository.ReportRepository
	announcementRepo repository.AnnouncementRepository

	geocoder geo.Geocoder
	weather  geo.WeatherClient

	userService         *service.UserService
	circleService       *service.CircleService
	postService         *service.PostService
	commentService      *service.CommentService
	moderationService   *service.ModerationService
	announcementService *service.AnnouncementService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedBuiltIns: true,
	})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := newServer(cfg, db, redisClient)
	// Prometheus collectors register globally, so only the real
	// constructor wires them.
	server.promMiddleware = middleware.InitMetrics("ourcircle-api")
	return server, nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		userRepo:         repository.NewUserRepository(db),
		circleRepo:       repository.NewCircleRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		reportRepo:       repository.NewReportRepository(db),
		announcementRepo: repository.NewAnnouncementRepository(db),
	}

	if cfg.GeocoderURL != "" {
		server.geocoder = geo.NewGeocoder(cfg.GeocoderURL)
	}
	if cfg.WeatherAPIURL != "" {
		server.weather = geo.NewWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey)
	}

	server.userService = service.NewUserService(server.userRepo, server.postRepo)
	server.circleService = service.NewCircleService(server.circleRepo, server.followRepo, server.isAdminByUserID)
	server.postService = service.NewPostService(server.postRepo, server.circleRepo, server.userRepo, server.geocoder, server.isAdminByUserID)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo, server.userRepo, server.isAdminByUserID)
	server.moderationService = service.NewModerationService(
		server.reportRepo, server.postRepo, server.circleRepo,
		server.userRepo, server.commentRepo, server.announcementRepo)
	server.announcementService = service.NewAnnouncementService(server.announcementRepo)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Distributed tracing
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Our Circle Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public browse routes
	api.Get("/home", s.GetHome)
	api.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.Search)
	api.Get("/weather", s.GetWeather)

	circles := api.Group("/circles")
	circles.Get("/", s.GetCircles)
	// /followed needs both auth and registration before /:id so the static
	// segment wins.
	circles.Get("/followed", s.AuthRequired(), s.GetFollowedCircles)
	circles.Get("/:id/posts", s.GetCirclePosts)
	circles.Get("/:id", s.GetCircle)

	posts := api.Group("/posts")
	posts.Get("/popular", s.GetPopularPosts)
	posts.Get("/recommended", s.GetRecommendedPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	announcements := api.Group("/announcements")
	announcements.Get("/", s.GetAnnouncements)
	announcements.Get("/:id", s.GetAnnouncement)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Post("/me/nicknames", s.AddNickname)
	users.Delete("/me/nicknames", s.RemoveNickname)
	// Specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id", s.GetUserProfile)

	// Circle follow routes
	protectedCircles := protected.Group("/circles")
	protectedCircles.Post("/:id/follow", s.FollowCircle)
	protectedCircles.Delete("/:id/follow", s.UnfollowCircle)

	// Protected post routes
	protectedPosts := protected.Group("/posts")
	protectedPosts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	protectedPosts.Post("/:id/like", s.LikePost)
	protectedPosts.Post("/:id/dislike", s.DislikePost)
	protectedPosts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	protectedPosts.Post("/:id/report", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "report_post"), s.ReportPost)
	protectedPosts.Put("/:id", s.UpdatePost)
	protectedPosts.Delete("/:id", s.DeletePost)

	// Comment reactions
	comments := protected.Group("/comments")
	comments.Post("/:id/like", s.LikeComment)
	comments.Post("/:id/dislike", s.DislikeComment)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/dashboard", s.GetDashboard)

	admin.Get("/users", s.GetAllUsers)
	admin.Post("/users/:id/promote", s.PromoteToAdmin)
	admin.Post("/users/:id/demote", s.DemoteFromAdmin)

	adminCircles := admin.Group("/circles")
	adminCircles.Get("/", s.GetAllCirclesForAdmin)
	adminCircles.Post("/", s.CreateCircle)
	adminCircles.Put("/:id", s.UpdateCircle)
	adminCircles.Delete("/:id", s.DeleteCircle)
	adminCircles.Post("/:id/activate", s.ActivateCircle)
	adminCircles.Post("/:id/deactivate", s.DeactivateCircle)

	adminPosts := admin.Group("/posts")
	adminPosts.Delete("/:id", s.AdminDeletePost)
	adminPosts.Post("/:id/pin", s.TogglePinPost)
	adminPosts.Post("/:id/recommend", s.ToggleRecommendPost)

	admin.Delete("/comments/:id", s.DeleteComment)

	adminReports := admin.Group("/reports")
	adminReports.Get("/", s.GetReports)
	adminReports.Post("/:id/resolve", s.ResolveReport)

	adminAnnouncements := admin.Group("/announcements")
	adminAnnouncements.Post("/", s.CreateAnnouncement)
	adminAnnouncements.Get("/:id", s.GetAnnouncementForAdmin)
	adminAnnouncements.Put("/:id", s.UpdateAnnouncement)
	adminAnnouncements.Delete("/:id", s.DeleteAnnouncement)
	adminAnnouncements.Post("/:id/pin", s.TogglePinAnnouncement)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// The app degrades gracefully without Redis, so only the database
	// gates readiness.
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
		"message": "Our Circle",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired gates admin routes. Non-admin callers are soft-denied:
// AJAX requests get 403 JSON, browser-style requests get a 303 redirect to
// the home view with an error notice. Must be placed after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdminByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			if isAJAX(c) {
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewForbiddenError("Admin access required"))
			}
			return c.Redirect("/?error=admin+access+required", fiber.StatusSeeOther)
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, ok := s.parseUserToken(tokenString)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Store user ID in context
		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// parseUserToken validates a JWT and extracts the user ID from its subject.
func (s *Server) parseUserToken(tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	return s.parseUserToken(parts[1])
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Our Circle API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
