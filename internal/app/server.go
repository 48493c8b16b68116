// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"omnia-service/internal/ai"
	"omnia-service/internal/config"
	"omnia-service/internal/db"
	"omnia-service/internal/domain/strategy"
	businessHandler "omnia-service/internal/handlers/business"
	datasetHandler "omnia-service/internal/handlers/dataset"
	importHandler "omnia-service/internal/handlers/imports"
	strategyHandler "omnia-service/internal/handlers/strategy"
	wsHandler "omnia-service/internal/handlers/websocket"
	"omnia-service/internal/middleware"
	"omnia-service/internal/pkg/archive"
	"omnia-service/internal/pkg/jwt"
	"omnia-service/internal/repository/postgres"
	"omnia-service/internal/scheduler"
	businessUsecase "omnia-service/internal/service/business"
	datasetUsecase "omnia-service/internal/service/dataset"
	generationUsecase "omnia-service/internal/service/generation"
	importUsecase "omnia-service/internal/service/imports"
	"omnia-service/internal/websocket"
	wsHandlers "omnia-service/internal/websocket/handler"
	"omnia-service/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// strategyRepository is what the services need from strategy storage
// taken together.
type strategyRepository interface {
	businessUsecase.StrategyRepository
	FindByID(ctx context.Context, id string) (*strategy.Record, error)
}

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	http      *http.Server
	pool      *pgxpool.Pool
	redis     redis.UniversalClient
	gemini    *ai.GeminiGenerator
	scheduler *scheduler.Scheduler
	stopHub   context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New()}
}

// Start wires every component and serves HTTP until Shutdown is called.
// Missing optional backends switch the matching component to its
// degraded mode instead of failing startup.
func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := newLogger(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	var (
		businessRepo businessUsecase.BusinessRepository = postgres.UnavailableBusinessRepository{}
		strategyRepo strategyRepository                 = postgres.UnavailableStrategyRepository{}
		datasetRepo  datasetUsecase.Repository          = postgres.UnavailableDatasetRepository{}
	)
	if s.cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, persistence disabled")
	} else {
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if err := postgres.NewDB(pool).Migrate(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		s.pool = pool

		businessRepo = postgres.NewBusinessRepository(pool)
		strategyRepo = postgres.NewStrategyRepository(pool)
		datasetRepo = postgres.NewDatasetRepository(pool)
		logger.Info("connected to PostgreSQL")
	}

	// ----- Redis / Workspace -----
	var store workspace.Store = workspace.NewMemoryStore()
	if len(s.cfg.RedisAddrs) == 0 {
		logger.Warn("REDIS_ADDRESSES not set, workspace kept in memory")
	} else {
		client, err := db.NewRedis(db.RedisConfig{
			ClusterMode: s.cfg.RedisCluster,
			Addresses:   s.cfg.RedisAddrs,
			Password:    s.cfg.RedisPass,
			DB:          s.cfg.RedisDB,
			PoolSize:    s.cfg.RedisPoolSize,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.redis = client
		store = workspace.NewRedisStore(client, s.cfg.WorkspaceTTL)
		logger.Info("connected to Redis", zap.Strings("addresses", s.cfg.RedisAddrs))
	}

	// ----- Remote generator -----
	var remote ai.Generator
	gemini, err := ai.NewGeminiGenerator(ctx, ai.Config{
		APIKey:        s.cfg.GeminiAPIKey,
		Model:         s.cfg.GeminiModel,
		KnowledgeBase: s.loadKnowledgeBase(),
		MaxKnowledge:  s.cfg.KnowledgeMaxChars,
	}, logger)
	if err != nil {
		logger.Warn("remote generation disabled, local templates only", zap.Error(err))
	} else {
		s.gemini = gemini
		remote = gemini
	}

	// ----- Archive -----
	var archiver datasetUsecase.Archiver
	if s.cfg.S3.Bucket == "" {
		logger.Warn("S3_BUCKET not set, dataset archive disabled")
	} else {
		a, err := archive.NewS3Archiver(ctx, archive.Config{
			Bucket:          s.cfg.S3.Bucket,
			Region:          s.cfg.S3.Region,
			Endpoint:        s.cfg.S3.Endpoint,
			AccessKeyID:     s.cfg.S3.AccessKeyID,
			SecretAccessKey: s.cfg.S3.SecretAccessKey,
			Prefix:          s.cfg.S3.Prefix,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to configure archive: %w", err)
		}
		archiver = a
	}

	// ----- JWT -----
	var verifier *jwt.Verifier
	if s.cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, requests are not authenticated")
	} else {
		verifier = jwt.NewVerifier(s.cfg.JWTSecret, s.cfg.JWTIssuer)
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(verifier, logger)
	hub.RegisterHandler(wsHandlers.NewWorkspaceHandler(store))

	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	// ----- Services (Usecases) -----
	businessService := businessUsecase.NewBusinessService(businessRepo, strategyRepo, store, hub, logger)
	generationService := generationUsecase.NewGenerationService(
		businessRepo,
		strategyRepo,
		store,
		remote,
		hub,
		s.cfg.AITimeout,
		logger,
	)
	datasetService := datasetUsecase.NewDatasetService(datasetRepo, strategyRepo, businessRepo, archiver, logger)
	importService := importUsecase.NewImportService(businessRepo, businessService, logger)

	// ----- Scheduler -----
	if archiver != nil {
		s.scheduler = scheduler.New(logger)
		job := scheduler.NewDatasetArchiveJob(datasetService, 2*time.Minute, logger)
		if err := s.scheduler.AddJob(s.cfg.ArchiveSchedule, job); err != nil {
			return fmt.Errorf("invalid ARCHIVE_SCHEDULE %q: %w", s.cfg.ArchiveSchedule, err)
		}
		s.scheduler.Start()
	}

	// ----- Handlers -----
	handlers := &Handlers{
		BusinessHandler: businessHandler.NewBusinessHandler(businessService),
		StrategyHandler: strategyHandler.NewStrategyHandler(generationService),
		DatasetHandler:  datasetHandler.NewDatasetHandler(datasetService),
		ImportHandler:   importHandler.NewImportHandler(importService),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, s.cfg.AllowedOrigins, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(verifier, logger),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("server running",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.Bool("persistence", s.pool != nil),
		zap.Bool("redis", s.redis != nil),
		zap.Bool("remote_generation", remote != nil),
		zap.Bool("archive", archiver != nil),
		zap.Bool("auth", verifier != nil),
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and releases every backend.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.gemini != nil {
		s.gemini.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logger != nil {
		s.logger.Info("server stopped")
		_ = s.logger.Sync()
	}
	return err
}

func (s *Server) loadKnowledgeBase() string {
	if s.cfg.KnowledgeBasePath == "" {
		return ""
	}
	data, err := os.ReadFile(s.cfg.KnowledgeBasePath)
	if err != nil {
		s.logger.Warn("failed to read knowledge base",
			zap.String("path", s.cfg.KnowledgeBasePath),
			zap.Error(err),
		)
		return ""
	}
	return string(data)
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
