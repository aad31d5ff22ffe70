package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/config"
	"github.com/backsoul/quizform/pkg/handlers"
	"github.com/backsoul/quizform/pkg/logger"
	"github.com/backsoul/quizform/pkg/metrics"
	"github.com/backsoul/quizform/pkg/middleware"
	"github.com/backsoul/quizform/pkg/redis"
	"github.com/backsoul/quizform/pkg/services"
	"github.com/backsoul/quizform/pkg/session"
	"github.com/backsoul/quizform/pkg/storage"
	"github.com/backsoul/quizform/pkg/websocket"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuración inválida: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error iniciando logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("❌ el servidor terminó con error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("🚀 Iniciando servidor de exámenes")

	store, closeStore, err := initSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	results, err := initResultStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Sin banco de preguntas el servicio no puede funcionar
	questionService := services.NewQuestionService(cfg.Quiz.QuestionsFile, log)
	questions, err := questionService.LoadQuestions()
	if err != nil {
		return fmt.Errorf("error cargando banco de preguntas: %w", err)
	}
	log.Info("📚 banco de preguntas cargado",
		zap.String("file", cfg.Quiz.QuestionsFile),
		zap.Int("questions", len(questions)),
	)

	m := metrics.New()

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	quizService := services.NewQuizService(questionService, store, m, log, cfg.Quiz.NumQuestions, cfg.Quiz.Shuffle)
	gradingService := services.NewGradingService(store, results, hub, m, log)
	tokens := session.NewTokens(cfg.Server.SecretKey, cfg.Session.TTL)

	router := &handlers.Router{
		Quiz:    handlers.NewQuizHandler(quizService, gradingService, tokens, cfg.Server.CookieSecure, log),
		Results: handlers.NewResultHandler(gradingService, log),
		Health:  handlers.NewHealthHandler(store, questionService),
		Metrics: m.Handler(),
		Feed:    hub.ServeResults,
		Logger:  log,
	}

	server := &fasthttp.Server{
		Handler:      middleware.Logging(log, m, limiter.Wrap(router.Handler)),
		Name:         "Quiz Server",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🎮 servidor iniciado",
			zap.String("addr", cfg.Server.Addr),
			zap.String("sessions", cfg.Session.Backend),
			zap.String("results", cfg.Results.Backend),
		)
		errCh <- server.ListenAndServe(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🔄 deteniendo servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}

func initSessionStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (session.Store, func(), error) {
	if strings.EqualFold(cfg.Session.Backend, "redis") {
		log.Info("🔌 conectando a Redis", zap.String("addr", cfg.Redis.Addr))
		client, err := redis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return client.NewSessionStore(cfg.Session.TTL), func() { client.Close() }, nil
	}
	return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
}

func initResultStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ResultStore, error) {
	if strings.EqualFold(cfg.Results.Backend, "minio") {
		log.Info("🪣 resultados en MinIO", zap.String("endpoint", cfg.Minio.Endpoint), zap.String("bucket", cfg.Minio.Bucket))
		return storage.NewMinioStore(ctx, cfg.Minio)
	}
	log.Info("📁 resultados en disco", zap.String("dir", cfg.Results.Dir))
	return storage.NewFSStore(cfg.Results.Dir)
}
