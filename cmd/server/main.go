package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"viralhub-backend-go/internal/config"
	"viralhub-backend-go/internal/db"
	httpapi "viralhub-backend-go/internal/http"
	"viralhub-backend-go/internal/llm"
	"viralhub-backend-go/internal/logging"
	"viralhub-backend-go/internal/migrations"
	"viralhub-backend-go/internal/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, cleanupLogs, err := logging.New(logging.Options{
		Dir:           cfg.LogDir,
		Level:         cfg.LogLevel,
		RetentionDays: cfg.LogRetentionDays,
	})
	if err != nil {
		logger.Warn("log file setup failed", zap.Error(err))
	}
	defer cleanupLogs()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Open(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer database.Close()
	if cfg.MigrateOnStart {
		if err := migrations.Apply(ctx, database, migrations.Files(), logger); err != nil {
			logger.Fatal("migrations", zap.Error(err))
		}
	}

	var provider llm.Provider
	if !cfg.MockMode() {
		provider = llm.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		logger.Info("OPENAI_API_KEY not set, assistant runs answer in mock mode")
	}

	server := httpapi.NewServer(storage.NewPostgres(database), provider, cfg, logger)
	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	logger.Info("shutdown complete")
}
