package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tutorlink/internal/app"
	"tutorlink/internal/cli"
	"tutorlink/internal/config"
	"tutorlink/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	load := func(ctx context.Context) (*cli.Services, func(), error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		// Los logs van a stderr; en la CLI solo interesan warnings.
		level := cfg.LogLevel
		if level == "info" {
			level = "warn"
		}
		logger, err := observability.NewLogger(level, cfg.LogDev)
		if err != nil {
			return nil, nil, err
		}
		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			_ = logger.Sync()
			return nil, nil, err
		}
		svc := &cli.Services{
			Auth:    a.Auth,
			Browse:  a.Browse,
			Profile: a.Profile,
			Contact: a.Contact,
			Logger:  logger,
		}
		return svc, func() {
			a.Close()
			_ = logger.Sync()
		}, nil
	}

	if err := cli.Execute(ctx, load); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
