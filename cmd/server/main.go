package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/idea-gen/youtube-idea-generator-go/internal/config"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/repository"
	"github.com/idea-gen/youtube-idea-generator-go/internal/handler"
	"github.com/idea-gen/youtube-idea-generator-go/internal/middleware"
	"github.com/idea-gen/youtube-idea-generator-go/internal/platform/youtube"
	"github.com/idea-gen/youtube-idea-generator-go/internal/service"
	"github.com/idea-gen/youtube-idea-generator-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &db.Config{
		URL:             cfg.Database.URL(),
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	logger.Log.Info("database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("maxConns", cfg.Database.MaxConnections),
	)

	client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey)
	if err != nil {
		logger.Log.Fatal("failed to initialize YouTube client", zap.Error(err))
	}

	// Publishing is optional: without a broker host the pipeline runs with
	// events disabled.
	var publisher *service.MessagePublisher
	if cfg.RabbitMQ.Host != "" {
		publisher, err = service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer func() { _ = publisher.Close() }()
	} else {
		logger.Log.Info("RabbitMQ host not configured, event publishing disabled")
	}

	channelRepo := repository.NewChannelRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	ideaRepo := repository.NewIdeaRepository(pool)

	var events service.EventPublisher
	if publisher != nil {
		events = publisher
	}

	channelSvc := service.NewChannelService(channelRepo)
	ingestSvc := service.NewIngestService(client, commentRepo, cfg.Sync.MaxCommentPagesPerVideo)
	syncSvc := service.NewSyncService(client, channelRepo, videoRepo, ingestSvc, events, cfg.Sync)
	ideaSvc := service.NewIdeaService(commentRepo, ideaRepo, &service.HeadlineDeriver{}, events,
		cfg.Ideas.DefaultBatchSize, cfg.Ideas.MaxBatchSize)

	router := buildRouter(cfg, pool, publisher, channelSvc, syncSvc, ideaSvc)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("graceful shutdown failed", zap.Error(err))
			_ = server.Close()
			os.Exit(1)
		}

		logger.Log.Info("server stopped gracefully")
	}
}

func buildRouter(
	cfg *config.Config,
	pool *pgxpool.Pool,
	publisher *service.MessagePublisher,
	channelSvc *service.ChannelService,
	syncSvc *service.SyncService,
	ideaSvc *service.IdeaService,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	var healthHandler *handler.HealthHandler
	if publisher != nil {
		healthHandler = handler.NewHealthHandler(pool, publisher)
	} else {
		healthHandler = handler.NewHealthHandler(pool, nil)
	}
	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.NewAPIKeyAuth(cfg.Auth.Keys)
	channelHandler := handler.NewChannelHandler(channelSvc)
	syncHandler := handler.NewSyncHandler(syncSvc)
	ideaHandler := handler.NewIdeaHandler(ideaSvc)

	api := router.Group("/api/v1", auth.Handler())
	{
		api.POST("/channels", channelHandler.Create)
		api.GET("/channels", channelHandler.List)
		api.DELETE("/channels/:id", channelHandler.Delete)

		api.POST("/sync", syncHandler.Sync)
		api.GET("/videos", syncHandler.ListVideos)

		api.POST("/ideas/generate", ideaHandler.Generate)
		api.GET("/ideas", ideaHandler.List)
	}

	return router
}
