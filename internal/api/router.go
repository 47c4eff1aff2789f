package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookwyrm/bookshelf-system/internal/api/handler"
	"github.com/bookwyrm/bookshelf-system/internal/api/middleware"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
	"github.com/bookwyrm/bookshelf-system/internal/core/service"
	"github.com/bookwyrm/bookshelf-system/internal/infrastructure/db/mongodb"
	redisdb "github.com/bookwyrm/bookshelf-system/internal/infrastructure/db/redis"
	"github.com/bookwyrm/bookshelf-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, media ports.MediaStore, cleaner ports.MediaCleaner, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("bookshelf"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	avatar := service.NewAvatarFunc(cfg.AvatarBaseURL)
	authService := service.NewAuthService(userRepo, avatar, cfg.JWTSecret, cfg.TokenTTL, log)
	bookService := service.NewBookService(bookRepo, media, cleaner, log)
	throttle := redisdb.NewLoginThrottle(rdb)

	authHandler := handler.NewAuthHandler(authService, throttle, log)
	bookHandler := handler.NewBookHandler(bookService)
	uploadHandler := handler.NewUploadHandler(media)
	sessionGuard := middleware.Auth(cfg.JWTSecret, userRepo, log)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Protected routes ---
	books := e.Group("/api/books", sessionGuard)
	books.POST("", bookHandler.Create)
	books.GET("", bookHandler.Feed)
	books.GET("/user", bookHandler.Mine)
	books.GET("/:id", bookHandler.Get)
	books.DELETE("/:id", bookHandler.Delete)

	e.POST("/api/upload", uploadHandler.Upload, sessionGuard)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
