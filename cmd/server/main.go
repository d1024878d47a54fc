// Package main - точка входа аналитического сервера Insight Engine.
//
// Сервер отдаёт REST API поверх снимков профилей студентов:
// - Выявление студентов в зоне риска
// - Подбор вакансий под навыки студентов
// - Сводная аналитика по когорте
// - Углублённый анализ отдельного студента
//
// Сервер ничего не пишет в хранилище данных: вся аналитика
// пересчитывается из актуальных снимков на каждый запрос.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skillpassport/insight-engine/config"
	"github.com/skillpassport/insight-engine/internal/application/query"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/internal/infrastructure/persistence/postgres"
	"github.com/skillpassport/insight-engine/internal/infrastructure/persistence/redis"
	httpapi "github.com/skillpassport/insight-engine/internal/interface/http"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	// .env нужен только для локальной разработки, в проде его нет.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting insight engine",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL/Supabase)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		redisCache    *redis.Cache
		snapshotCache *redis.SnapshotCache
	)

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Без Redis движок работает, просто читает базу чаще.
			log.Warn("failed to connect to Redis, snapshot caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			snapshotCache = redis.NewSnapshotCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories")
	studentRepo := postgres.NewStudentRepository(dbConn)
	assignmentRepo := postgres.NewAssignmentRepository(dbConn, log)
	opportunityRepo := postgres.NewOpportunityRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ QUERY HANDLERS (CQRS Read Side)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing query handlers")
	var sc student.Cache
	if snapshotCache != nil {
		sc = snapshotCache
	}
	ttl := cfg.Analytics.SnapshotTTL
	atRiskHandler := query.NewGetAtRiskStudentsHandler(studentRepo, sc, assignmentRepo, ttl, log)
	matchesHandler := query.NewGetOpportunityMatchesHandler(studentRepo, sc, assignmentRepo, opportunityRepo, ttl, log)
	classHandler := query.NewGetClassAnalyticsHandler(studentRepo, sc, assignmentRepo, ttl, log)
	analysisHandler := query.NewGetStudentAnalysisHandler(studentRepo, assignmentRepo, opportunityRepo, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HEALTH CHECKS И МЕТРИКИ
	// ─────────────────────────────────────────────────────────────────────────
	health := httpapi.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("postgres", httpapi.NewStoreCheck(dbConn))
	if redisCache != nil {
		health.AddCheck("redis", httpapi.NewCacheCheck(redisCache))
	}

	metrics := httpapi.NewMetrics()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.EnableMetrics = cfg.HTTP.EnableMetrics
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverCfg.APIKeyHeader = cfg.HTTP.APIKeyHeader
	serverCfg.APIKeyHashes = cfg.HTTP.APIKeyHashes
	serverCfg.DefaultJobLimit = cfg.Analytics.DefaultJobLimit

	deps := httpapi.Dependencies{
		GetAtRiskStudentsHandler:     atRiskHandler,
		GetOpportunityMatchesHandler: matchesHandler,
		GetClassAnalyticsHandler:     classHandler,
		GetStudentAnalysisHandler:    analysisHandler,
		Logger:                       log,
		HealthChecker:                health,
		Metrics:                      metrics,
	}
	if redisCache != nil {
		deps.RateCounter = redisCache
	}

	server := httpapi.NewServer(serverCfg, deps)

	errCh := server.StartAsync()
	log.Info("insight engine is running", logger.String("address", server.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
