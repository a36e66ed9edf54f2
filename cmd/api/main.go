package main

import (
	"context"
	"log"

	"chat-history/config"
	"chat-history/internal/handler"
	"chat-history/internal/middleware"
	"chat-history/internal/redis"
	"chat-history/internal/repository"
	"chat-history/internal/server"
	"chat-history/internal/services"
	"chat-history/pkg/database"
	"chat-history/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(logger.ModeFor(cfg.AppMode))
	logger.SetGlobalLogger(l)
	defer l.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			l.Errorf("closing database: %v", err)
		}
	}()
	l.Infof("Database connection established")

	chatRepo := repository.NewChatRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	authService := services.NewAuthService(accountRepo, cfg)
	historyService := services.NewHistoryService(chatRepo)

	var limiter middleware.HistoryLimiter
	if cfg.RateLimitEnabled {
		client, err := redis.Connect(context.Background(), redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		rlCfg := redis.NewRateLimitConfig(cfg.RateLimitHistory, cfg.RateLimitWindowSec)
		limiter = redis.NewRateLimiter(client, rlCfg)
		l.Infof("History rate limit: %d requests per %s", rlCfg.HistoryLimit, rlCfg.HistoryWindow)
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		History: handler.NewHistoryHandler(historyService, l),
	}, server.Deps{
		Auth:        authService,
		Limiter:     limiter,
		HealthCheck: healthCheck(db),
	})

	if err := srv.Start(); err != nil {
		l.Errorf("server exited: %v", err)
	}
}

func healthCheck(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	}
}
