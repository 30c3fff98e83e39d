package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crescieperdi/portal-interno/internal/ai"
	"github.com/crescieperdi/portal-interno/internal/config"
	"github.com/crescieperdi/portal-interno/internal/handlers"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/crescieperdi/portal-interno/internal/scheduler"
	"github.com/crescieperdi/portal-interno/internal/service"
	"github.com/crescieperdi/portal-interno/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Carregamento da configuração
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Inicialização do logger
	logger, err := initLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("iniciando portal interno Cresci e Perdi",
		zap.String("server_address", cfg.Server.GetAddress()))

	// Conexão com o banco de dados
	dbPool, err := initDatabase(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	logger.Info("conexão com o banco estabelecida")

	// Camada de dados e integrações
	repo := repository.New(dbPool)
	aiClient := ai.New(cfg.AI, logger)
	uploads := storage.New(cfg.Storage)
	dispatcher := service.NewFunctionDispatcher(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Timeout, logger)

	// Serviços de domínio
	feedService := service.NewFeedService(repo, aiClient, logger)
	ideaService := service.NewIdeaService(repo, feedService, aiClient, dispatcher, logger)
	muralService := service.NewMuralService(repo, aiClient, feedService, logger)
	girabotService := service.NewGirabotService(repo, aiClient, logger)
	trainingService := service.NewTrainingService(repo, aiClient, logger)
	surveyService := service.NewSurveyService(repo)

	// Handlers da API
	handler := handlers.New(repo, ideaService, muralService, feedService,
		girabotService, trainingService, surveyService, uploads, cfg.Auth, logger)

	// Configuração do servidor Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.Info("request",
					zap.String("method", c.Request().Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
				)
			} else {
				logger.Error("request error",
					zap.String("method", c.Request().Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Error(v.Error),
				)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Registro das rotas
	handler.RegisterRoutes(e)

	// Health check e métricas
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Arquivos enviados (mural-images) servidos estaticamente
	e.Static("/storage", uploads.Dir())

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tarefas periódicas: aviso de votação vencida e resumo semanal
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(repo, feedService, cfg.Scheduler.SweepInterval, logger)
		go sched.Run(ctx)
	}

	// Servidor em goroutine
	go func() {
		addr := cfg.Server.GetAddress()
		logger.Info("servidor ouvindo", zap.String("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start failed", zap.Error(err))
		}
	}()

	// Aguarda o sinal de término
	<-ctx.Done()
	logger.Info("encerrando o servidor")

	// Timeout do graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("servidor parado")
}

// initLogger inicializa o logger zap a partir da configuração
func initLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// initDatabase inicializa o pool de conexões com o PostgreSQL
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Ajustes do pool
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verificação da conexão
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
