package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/db"
	"symptom-checker-server/internal/handlers"
	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/scoring"
	"symptom-checker-server/internal/services"
	"symptom-checker-server/internal/utils"
)

// Dependencies are the collaborators built in main. LLM and AdviceCache may
// be nil.
type Dependencies struct {
	DB          *gorm.DB
	LLM         llm.Client
	Scoring     scoring.Strategy
	AdviceCache services.AdviceCache
	Logger      *zap.Logger
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, cfg *config.Config, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exposeErrors := cfg.IsDevelopment()

	repos := db.NewRepositories(deps.DB)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	authService := services.NewAuthService(repos.Users, tokens)
	analysisService := services.NewAnalysisService(
		services.NewSymptomExtractor(deps.LLM, logger.Named("extractor")),
		scoring.NewEngine(deps.Scoring, cfg.Scoring.MaxPredictions, logger.Named("scoring")),
		services.NewAdviceGenerator(deps.LLM, deps.AdviceCache, cfg.Advice.Workers, logger.Named("advice")),
		repos.History,
		cfg.HistorySaveTimeout,
		logger.Named("analysis"),
	)

	authHandler := handlers.NewAuthHandler(authService, logger, exposeErrors)
	symptomHandler := handlers.NewSymptomHandler(analysisService, authService, logger, exposeErrors)
	historyHandler := handlers.NewHistoryHandler(
		services.NewHistoryService(repos.History),
		services.NewAnalyticsService(repos.History),
		logger,
		exposeErrors,
	)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/profile", requireAuth, authHandler.GetProfile)
			authRoutes.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		}

		// Anonymous callers get results but nothing is saved.
		symptomRoutes := api.Group("/symptoms")
		symptomRoutes.Use(optionalAuth)
		{
			symptomRoutes.POST("/analyze", symptomHandler.Analyze)
			symptomRoutes.POST("/parse", symptomHandler.Parse)
		}

		historyRoutes := api.Group("/history")
		historyRoutes.Use(requireAuth)
		{
			historyRoutes.GET("", historyHandler.List)
			historyRoutes.GET("/analytics", historyHandler.GetAnalytics)
			historyRoutes.GET("/:id", historyHandler.Get)
			historyRoutes.DELETE("/:id", historyHandler.Delete)
		}
	}

	router.GET("/health", healthHandler.Live)
	router.GET("/ready", healthHandler.Ready)
}
