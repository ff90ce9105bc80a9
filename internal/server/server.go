package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagepulse/internal/classifier"
	"pagepulse/internal/config"
	"pagepulse/internal/handler"
	"pagepulse/internal/middleware"
	"pagepulse/internal/service"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// NewServer wires the HTTP layer: handlers, middleware, and routes.
func NewServer(cfg *config.Config, authService service.AuthService, feedService *service.FeedService, clf *classifier.Classifier, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		logger: logger,
	}

	authHandler := handler.NewAuthHandler(authService, logger)
	feedHandler := handler.NewFeedHandler(feedService, logger)
	feedbackHandler := handler.NewFeedbackHandler(clf, logger)

	// Ping route for health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.POST("/account/login", authHandler.Login)
	router.POST("/account/register", authHandler.Register)
	router.POST("/account/add_page", authHandler.AddPage)

	router.GET("/page/:page_id/feeds", feedHandler.ListFeeds)
	router.GET("/async/page/:page_id/feeds", feedHandler.ListFeedsAsync)

	router.POST("/feedback", feedbackHandler.Submit)

	authenticated := router.Group("/account")
	authenticated.Use(middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret), logger))
	{
		authenticated.GET("/me", authHandler.Me)
	}

	return s
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
