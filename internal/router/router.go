package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/saitama-on/AssessmentAssist/internal/config"
	"github.com/saitama-on/AssessmentAssist/internal/handler"
	"github.com/saitama-on/AssessmentAssist/internal/middleware"
	"github.com/saitama-on/AssessmentAssist/internal/response"
	"github.com/saitama-on/AssessmentAssist/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Editor   *handler.EditorHandler
	Question *handler.QuestionHandler
	WS       *handler.WSHandler
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

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuthorJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuthorJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Editor Group (JWT + Active Session) ────────────────────────
	editorAPI := router.Group("/api/v1/editor")
	editorAPI.Use(
		middleware.RequireAuthorJWT(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		editorAPI.GET("/questions", handlers.Editor.ListDrafts)
		editorAPI.POST("/questions", handlers.Editor.CreateDraft)
		editorAPI.GET("/questions/:id", handlers.Editor.GetDraft)
		editorAPI.PUT("/questions/:id", handlers.Editor.UpdateDraft)
		editorAPI.DELETE("/questions/:id", handlers.Editor.DeleteDraft)
		editorAPI.POST("/questions/:id/duplicate", handlers.Editor.DuplicateDraft)
		editorAPI.POST("/questions/:id/validate", handlers.Editor.ValidateDraft)
		editorAPI.POST("/questions/:id/save", handlers.Editor.SaveDraft)
	}

	// ─── 3. WebSocket Group (Author WS Auth) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAuthorWSAuth(authService))
	{
		ws.GET("/editor/validate", handlers.WS.ValidateStream)
	}

	// ─── 4. Persisted Questions (JWT + Active Session) ─────────────────
	questionsAPI := router.Group("/api/v1/questions")
	questionsAPI.Use(
		middleware.RequireAuthorJWT(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		questionsAPI.GET("", handlers.Question.ListQuestions)
		questionsAPI.GET("/:id", handlers.Question.GetQuestion)
		questionsAPI.DELETE("/:id", handlers.Question.DeleteQuestion)
	}

	return router
}
