package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/hasker/config"
	"github.com/cppla/hasker/controllers"
	"github.com/cppla/hasker/middleware"
	"github.com/cppla/hasker/repository"
	"github.com/cppla/hasker/services"
	"github.com/cppla/hasker/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.Gin.Mode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and panics go to their own rolling file
	gl := utils.NewRollingFileLogger(cfg.Gin.LogPath, cfg.Log)
	r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(gl, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	utils.SetPasswordCost(cfg.App.PasswordCost)
	rc := utils.GetRedis()
	cache := utils.NewRedisCache(rc)
	sessions := utils.NewSessionStore(rc, time.Duration(cfg.App.SessionTTLHours)*time.Hour)
	store := repository.New(db)

	ranking := services.NewRanking(store.Questions(), store.Answers(), cache, services.RankingOptions{
		PageSize:      cfg.Ranking.PageSize,
		MaxPageSize:   cfg.Ranking.MaxPageSize,
		TrendingLimit: cfg.Ranking.TrendingLimit,
		TrendingTTL:   time.Duration(cfg.Ranking.TrendingCacheTTLSec) * time.Second,
	})
	votes := services.NewVoteLedger(store.Questions(), store.Answers(), store.Votes(), cache)
	correctness := services.NewCorrectness(store.Questions(), store.Answers())

	authController := controllers.NewAuthController(services.NewAccountService(store.Users()))
	questionController := controllers.NewQuestionController(services.NewQuestionService(store.Questions(), cache), ranking, votes, sessions)
	answerController := controllers.NewAnswerController(services.NewAnswerService(store.Questions(), store.Answers()), ranking, votes, correctness)
	statsController := controllers.NewStatsController(store)

	api := r.Group("/api/v1")
	api.Use(middleware.Session(cfg.App.SessionTTLHours * 3600))

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.App.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	api.GET("/questions", questionController.List)
	api.GET("/questions/:id", questionController.Get)
	api.GET("/questions/:id/answers", answerController.List)
	api.GET("/search", questionController.Search)
	api.GET("/trending", questionController.Trending)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware(cfg.App.RateLimitPerMinute))
	protected.POST("/questions", questionController.Create)
	protected.DELETE("/questions/:id", questionController.Delete)
	protected.POST("/questions/:id/vote", questionController.Vote)
	protected.DELETE("/questions/:id/vote", questionController.Unvote)
	protected.POST("/questions/:id/answers", answerController.Create)
	protected.POST("/questions/:id/answers/:answerId/vote", answerController.Vote)
	protected.DELETE("/questions/:id/answers/:answerId/vote", answerController.Unvote)
	protected.POST("/questions/:id/answers/:answerId/correct", answerController.SelectCorrect)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
