package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"roamly/database"
	"roamly/internal/cache"
	"roamly/internal/config"
	"roamly/internal/external/chatbot"
	"roamly/internal/external/tmdb"
	"roamly/internal/external/youtube"
	"roamly/internal/microservices/http-api/handler"
	"roamly/internal/microservices/http-api/middleware"
	"roamly/internal/microservices/http-api/repository"
	"roamly/internal/microservices/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it the default recommendation list is
	// recomputed on every request instead of served from cache.
	var recCache *cache.RecommendationCache
	redisClient, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, recommendation caching disabled", "error", err)
	} else {
		recCache = cache.NewRecommendationCache(redisClient, time.Duration(cfg.CacheTTL)*time.Second)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	// External clients
	tmdbClient := tmdb.NewClient(cfg.TmdbAPIURL, cfg.TmdbAPIKey)
	youtubeClient := youtube.NewClient(cfg.YouTubeAPIURL, cfg.YouTubeAPIKey)
	chatbotClient := chatbot.NewClient(cfg.ChatbotAPIURL, cfg.ChatbotAPIKey)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	movieService := service.NewMovieService(movieRepo, userRepo, ratingRepo, tmdbClient, logger)
	recommendationService := service.NewRecommendationService(userRepo, ratingRepo, movieRepo, cacheOrNil(recCache), logger)
	ratingService := service.NewRatingService(ratingRepo, movieRepo, userRepo, invalidatorOrNil(recCache))
	watchlistService := service.NewWatchlistService(watchlistRepo, movieRepo, userRepo, cfg.FrontendBaseURL)
	chatbotService := service.NewChatbotService(userRepo, movieRepo, chatbotClient, logger)
	adminService := service.NewAdminService(userRepo, movieRepo, ratingRepo, watchlistRepo,
		refreshTokenRepo, tmdbClient, youtubeClient, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService, recommendationService, authService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService)
	chatbotHandler := handler.NewChatbotHandler(chatbotService)
	adminHandler := handler.NewAdminHandler(adminService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public surface
	authHandler.RegisterRoutes(api.Group("/auth"))

	movies := api.Group("/movies")
	movieHandler.RegisterRoutes(movies)
	ratingHandler.RegisterMovieRoutes(movies)

	watchlistHandler.RegisterPublicRoutes(api.Group("/watchlists/public"))

	// Authenticated surface
	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(authService))
	authHandler.RegisterProfileRoutes(authed.Group("/users"))
	ratingHandler.RegisterRoutes(authed.Group("/ratings"))
	watchlistHandler.RegisterRoutes(authed.Group("/watchlists"))
	chatbotHandler.RegisterRoutes(authed.Group("/chatbot"))
	chatbotHandler.RegisterChatRoutes(authed.Group("/chat"))

	// Admin console
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authService), middleware.RequireAdmin())
	adminHandler.RegisterRoutes(admin)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting HTTP server", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// cacheOrNil avoids handing the services a typed nil pointer wrapped in a
// non-nil interface when Redis is down.
func cacheOrNil(c *cache.RecommendationCache) service.DefaultListCache {
	if c == nil {
		return nil
	}
	return c
}

func invalidatorOrNil(c *cache.RecommendationCache) service.AggregateInvalidator {
	if c == nil {
		return nil
	}
	return c
}
