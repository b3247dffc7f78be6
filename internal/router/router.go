package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-feed-api/internal/cache"
	"community-feed-api/internal/client"
	appConfig "community-feed-api/internal/config"
	"community-feed-api/internal/database"
	"community-feed-api/internal/handler"
	"community-feed-api/internal/metrics"
	"community-feed-api/internal/middleware"
	"community-feed-api/internal/repository"
	"community-feed-api/internal/service"
)

// Config holds the dependencies for the router
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	AllowedOrigins []string
	Feed           appConfig.FeedConfig
	Metrics        *metrics.Metrics
	MediaClient    client.MediaClient
	CountCache     *cache.CommentCountCache
}

// Setup wires repositories, services and handlers and returns the engine
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		if cfg.DB != nil {
			database.RegisterMetricsCallbacks(cfg.DB, cfg.Metrics)
		}
	}

	// Repositories
	postRepo := repository.NewPostRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	voteRepo := repository.NewVoteRepository(cfg.DB)

	// Services
	postService := service.NewPostService(
		postRepo, commentRepo, voteRepo,
		cfg.CountCache, cfg.MediaClient, cfg.Feed, cfg.Metrics, cfg.Logger)
	commentService := service.NewCommentService(
		commentRepo, postRepo, voteRepo,
		cfg.CountCache, cfg.Feed.CommentPageSize, cfg.Metrics, cfg.Logger)
	votingService := service.NewVotingService(
		voteRepo, postRepo, commentRepo,
		cfg.Feed.VoteMaxRetries, cfg.Metrics, cfg.Logger)

	// Handlers
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	voteHandler := handler.NewVoteHandler(votingService)

	base := r.Group(cfg.BasePath)

	base.GET("/health", healthCheck)
	base.GET("/metrics", gin.WrapH(promhttp.Handler()))
	base.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Reads annotate the viewer when a token is present but never require one
	reads := base.Group("")
	reads.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		reads.GET("/posts", postHandler.ListPosts)
		reads.GET("/posts/:id", postHandler.GetPost)
		reads.GET("/posts/:id/comments", commentHandler.ListComments)
	}

	// Writes require an authenticated identity
	writes := base.Group("")
	writes.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		writes.POST("/posts", postHandler.CreatePost)
		writes.PUT("/posts/:id", postHandler.UpdatePost)
		writes.DELETE("/posts/:id", postHandler.DeletePost)

		writes.POST("/posts/:id/comments", commentHandler.CreateComment)
		writes.DELETE("/comments/:id", commentHandler.DeleteComment)

		writes.POST("/posts/:id/vote", voteHandler.VoteOnPost)
		writes.POST("/comments/:id/vote", voteHandler.VoteOnComment)
	}

	return r
}

// healthCheck reports service and database liveness
func healthCheck(c *gin.Context) {
	status := "ok"
	dbStatus := "connected"
	code := http.StatusOK
	if !database.IsConnected() {
		status = "degraded"
		dbStatus = "disconnected"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbStatus,
	})
}
