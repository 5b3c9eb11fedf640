package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/productosnova/kpop-albums-api/docs"
	"github.com/productosnova/kpop-albums-api/internal/api/handler"
	"github.com/productosnova/kpop-albums-api/internal/api/middleware"
	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
	"github.com/productosnova/kpop-albums-api/internal/core/service"
	"github.com/productosnova/kpop-albums-api/internal/infrastructure/config"
	mongodb "github.com/productosnova/kpop-albums-api/internal/infrastructure/db/mongo"
	redisdb "github.com/productosnova/kpop-albums-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("kpop_store"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	albumRepo := mongodb.NewAlbumRepository(db)

	// Redis is optional: without it logins simply run unthrottled.
	var limiter ports.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb)
	}

	authService := service.NewAuthService(userRepo, limiter, cfg.JWTSecret, cfg.SessionTTL(), log)
	albumService := service.NewAlbumService(albumRepo, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Production())
	albumHandler := handler.NewAlbumHandler(albumService, cfg.UploadDir)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	requireAuth := middleware.Auth(cfg.JWTSecret)
	staffOnly := middleware.RequireRoles(domain.RoleAdmin, domain.RoleGerente)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	// --- Ops surface ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Static frontend plus the uploaded cover images.
	e.Static("/uploads", cfg.UploadDir)
	e.Static("/", "public")

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Catalog routes ---
	albums := e.Group("/api/albums", requireAuth)
	albums.GET("", albumHandler.List)
	albums.GET("/search", albumHandler.List)
	albums.GET("/stats", albumHandler.Stats)
	albums.GET("/artista/:artista", albumHandler.ByArtista)
	albums.GET("/categoria/:categoria", albumHandler.ByCategoria)
	albums.GET("/:id", albumHandler.Get)
	albums.POST("", albumHandler.Create, staffOnly)
	albums.PATCH("/:id", albumHandler.Update, staffOnly)
	albums.PATCH("/:id/stock", albumHandler.UpdateStock, staffOnly)
	albums.DELETE("/:id", albumHandler.Delete, staffOnly)

	// --- Account management (staff only, deletes admin only) ---
	users := e.Group("/api/users", requireAuth, staffOnly)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
