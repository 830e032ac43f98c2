package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meritmind/internal/config"
	"meritmind/internal/db"
	"meritmind/internal/email"
	apihttp "meritmind/internal/http"
	"meritmind/internal/llm"
	"meritmind/internal/repository"
	"meritmind/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	journalRepo := repository.NewPgJournalRepository(pool)

	// Sin API key el extractor queda en modo fallback y el guardado sigue funcionando.
	var llmClient llm.LLMClient
	if cfg.MiniMaxAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.MiniMaxBaseURL, cfg.MiniMaxAPIKey, cfg.MiniMaxModel, logger)
	} else {
		logger.Warn("minimax api key not configured, analysis will use fallback insights")
	}
	insightSvc := service.NewInsightService(llmClient, logger)

	var dashCache *service.DashboardCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			dashCache = service.NewDashboardCache(redisClient, time.Minute)
		}
		cancel()
	}

	alertSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			alertSender = sender
		}
	}

	journalSvc := service.NewJournalService(logger, userRepo, journalRepo, insightSvc, alertSender, cfg.AlertEmail, dashCache)
	dashboardSvc := service.NewDashboardService(logger, userRepo, journalRepo, dashCache)
	voiceSvc := service.NewVoiceService(cfg.ElevenLabsAgentID, cfg.ElevenLabsAPIKey)

	userHandler := apihttp.NewUserHandler(logger, userRepo)
	journalHandler := apihttp.NewJournalHandler(logger, journalSvc)
	dashboardHandler := apihttp.NewDashboardHandler(logger, dashboardSvc)
	voiceHandler := apihttp.NewVoiceHandler(logger, voiceSvc)
	router := apihttp.NewRouter(logger, userHandler, journalHandler, dashboardHandler, voiceHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
