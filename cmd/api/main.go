package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/api/routes"
	"github.com/SellStarHQ/partner-rewards-backend/internal/config"
	"github.com/SellStarHQ/partner-rewards-backend/internal/handlers"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	mongorepo "github.com/SellStarHQ/partner-rewards-backend/internal/repositories/mongodb"
	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/mongodb"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional, real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var dealRepo repositories.DealRepository = mongorepo.NewDealRepository(db)
	var pointsRepo repositories.PointsHistoryRepository = mongorepo.NewPointsHistoryRepository(db)
	var rewardRepo repositories.RewardRepository = mongorepo.NewRewardRepository(db)
	var userRewardRepo repositories.UserRewardRepository = mongorepo.NewUserRewardRepository(db)
	var rateRepo repositories.RateConfigRepository = mongorepo.NewRateConfigRepository(db)
	var drawRepo repositories.DrawRepository = mongorepo.NewDrawRepository(db)
	var tx repositories.Transactor = mongorepo.NewTransactor(mongoClient.Raw())

	// Optional leaderboard cache
	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			slog.Warn("redis unreachable, leaderboard cache disabled", "error", err)
			cache = nil
		}
	}

	// Notifier
	var events notifier.Notifier
	if cfg.Notifier.Mock {
		events = notifier.NewMockNotifier()
	} else {
		events = notifier.NewEMBlueNotifier(cfg.Notifier.BaseURL, cfg.Notifier.APIKey)
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, dealRepo, pointsRepo, userRewardRepo, tx, events)
	pointsService := services.NewPointsService(pointsRepo)
	dealService := services.NewDealService(dealRepo, userRepo, rateRepo, pointsRepo, tx, events)
	rewardService := services.NewRewardService(rewardRepo)
	redemptionService := services.NewRedemptionService(userRewardRepo, rewardRepo, userRepo, pointsRepo, tx, events)
	rateConfigService := services.NewRateConfigService(rateRepo)
	reportService := services.NewReportService(pointsRepo, dealRepo, userRepo, userRewardRepo, cache)
	drawService := services.NewDrawService(drawRepo, pointsRepo, userRepo, rateRepo, events)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		UserHandler:       handlers.NewUserHandler(userService),
		DealHandler:       handlers.NewDealHandler(dealService),
		RewardHandler:     handlers.NewRewardHandler(rewardService),
		RedemptionHandler: handlers.NewRedemptionHandler(redemptionService),
		RateConfigHandler: handlers.NewRateConfigHandler(rateConfigService),
		ReportHandler:     handlers.NewReportHandler(reportService, pointsService),
		DrawHandler:       handlers.NewDrawHandler(drawService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
