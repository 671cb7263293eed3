// Command server runs the learnhub REST API.
//
// All settings come from the environment (see internal/config):
//
//	PORT=8080 STORE_DRIVER=sqlite DB_PATH=data/learnhub.db go run ./cmd/server
//	STORE_DRIVER=mongo MONGO_URI=mongodb://localhost:27017 go run ./cmd/server
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/learnhub/internal/config"
	"github.com/sakif/learnhub/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate already checked the level, so the error is always nil here.
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
