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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tutorlink/internal/app"
	"tutorlink/internal/config"
	apihttp "tutorlink/internal/http"
	"tutorlink/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init", zap.Error(err))
	}
	defer a.Close()

	if err := a.Auth.Restore(ctx); err != nil {
		logger.Warn("could not restore saved session", zap.Error(err))
	}

	authHandler := apihttp.NewAuthHandler(logger, a.Auth)
	tutorHandler := apihttp.NewTutorHandler(logger, a.Browse, a.Contact)
	profileHandler := apihttp.NewProfileHandler(logger, a.Profile)
	router := apihttp.NewRouter(logger, a.Metrics, observability.Handler(a.Registry), a.Store, authHandler, tutorHandler, profileHandler)

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

	logger.Info("starting portal",
		zap.String("port", cfg.HTTPPort),
		zap.String("api", cfg.APIBaseURL),
		zap.String("session_backend", cfg.SessionBackend),
		zap.String("profile", cfg.SessionProfile),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
