package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roomie-match/internal/config"
	"roomie-match/internal/db"
	apihttp "roomie-match/internal/http"
	"roomie-match/internal/repository"
	"roomie-match/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	profileRepo := repository.NewPgProfileRepository(pool)
	likeRepo := repository.NewPgLikeRepository(pool)
	matchRepo := repository.NewPgMatchRepository(pool)

	likeWindow := time.Duration(cfg.LikeRateLimitWindowMinutes) * time.Minute
	var (
		discoveryCache = service.NewMemoryDiscoveryCache()
		likeLimiter    = service.NewMemoryRateLimiter(likeWindow, cfg.LikeRateLimitMax)
		redisClient    *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory cache and limiter", zap.Error(err))
		} else {
			discoveryCache = service.NewRedisDiscoveryCache(redisClient)
			likeLimiter = service.NewRedisRateLimiter(redisClient, "likes:rl:", likeWindow, cfg.LikeRateLimitMax)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	profileSvc := service.NewProfileService(logger, profileRepo)
	discoverySvc := service.NewDiscoveryService(logger, profileRepo, discoveryCache, service.DiscoveryOptions{
		CandidateLimit: cfg.DiscoveryCandidateLimit,
		CacheTTL:       time.Duration(cfg.DiscoveryCacheTTLSeconds) * time.Second,
	})
	likeSvc := service.NewLikeService(logger, likeRepo, matchRepo, profileRepo, likeLimiter)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewProfileHandler(logger, profileSvc),
		apihttp.NewDiscoveryHandler(logger, discoverySvc),
		apihttp.NewLikeHandler(logger, likeSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
