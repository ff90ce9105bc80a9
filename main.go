package main

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"pagepulse/internal/classifier"
	"pagepulse/internal/config"
	"pagepulse/internal/graph"
	"pagepulse/internal/repository"
	"pagepulse/internal/server"
	"pagepulse/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	storeLog := logrus.New()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	accessToken, err := config.LoadAccessToken(cfg.Storage.AccessTokenFile)
	if err != nil {
		logger.Fatal("Failed to load access token", zap.Error(err))
	}

	// File-backed stores
	userStore := repository.NewFileUserStore(cfg.Storage.UsersFile, storeLog)
	corpusStore := repository.NewCSVCorpusStore(cfg.Storage.DatasetFile, storeLog)

	// Train the classifier before the server accepts any requests.
	clf := classifier.New(corpusStore, logger)
	if err := clf.Bootstrap(); err != nil {
		logger.Fatal("Failed to train classifier", zap.Error(err))
	}

	// Graph API client, shared across all requests
	graphClient := graph.NewClient(cfg.Graph.BaseURL, accessToken, cfg.GraphTimeout(), logger)
	defer graphClient.Close()

	authService := service.NewAuthService(userStore, []byte(cfg.Auth.JWTSecret), cfg.TokenTTL(), logger)
	feedService := service.NewFeedService(graphClient, clf, cfg.Graph.Concurrency, cfg.Graph.StrictFiltering, logger)

	srv := server.NewServer(cfg, authService, feedService, clf, logger)
	srv.Run(cfg.Server.Port)
}
