package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-backend/internal/config"
	"github.com/quizdeck/quizdeck-backend/internal/handler"
	"github.com/quizdeck/quizdeck-backend/internal/metrics"
	"github.com/quizdeck/quizdeck-backend/internal/middleware"
	"github.com/quizdeck/quizdeck-backend/internal/response"
	"github.com/quizdeck/quizdeck-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Quiz    *handler.QuizHandler
	Attempt *handler.AttemptHandler
	Media   *handler.MediaHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Request counters and latency histograms for every route.
	router.Use(metrics.Middleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint.
	router.GET("/metrics", metrics.Handler())

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Quiz Group (JWT) ───────────────────────────────────────────
	quizAPI := router.Group("/api/v1/quizzes")
	quizAPI.Use(middleware.RequireAuth(authService))
	{
		quizAPI.POST("", handlers.Quiz.CreateQuiz)
		quizAPI.POST("/generate", handlers.Quiz.GenerateQuiz)
		quizAPI.GET("/mine", handlers.Quiz.ListMyQuizzes)
		quizAPI.GET("/:quiz_id", handlers.Quiz.GetQuiz)
		quizAPI.GET("/:quiz_id/edit", handlers.Quiz.GetQuizForEdit)
		quizAPI.PUT("/:quiz_id", handlers.Quiz.UpdateQuiz)
		quizAPI.DELETE("/:quiz_id", handlers.Quiz.DeleteQuiz)

		quizAPI.POST("/:quiz_id/attempt", handlers.Attempt.SubmitAttempt)
		quizAPI.GET("/:quiz_id/leaderboard", handlers.Attempt.GetLeaderboard)
	}

	// ─── 3. Attempt Group (JWT) ────────────────────────────────────────
	attemptAPI := router.Group("/api/v1/attempts")
	attemptAPI.Use(middleware.RequireAuth(authService))
	{
		attemptAPI.GET("", handlers.Attempt.ListHistory)
		attemptAPI.GET("/:attempt_id/results", handlers.Attempt.GetResults)
	}

	// ─── 4. Media Group (JWT) ──────────────────────────────────────────
	mediaAPI := router.Group("/api/v1/media")
	mediaAPI.Use(middleware.RequireAuth(authService))
	{
		mediaAPI.POST("/upload", handlers.Media.UploadMedia)
	}

	return router
}
