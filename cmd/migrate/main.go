package main

import (
	"context"
	"os"
	"time"

	"souq/internal/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// migrate applies the embedded schema and exits. The API runs the same
// migrations on start; this is for deploy pipelines that migrate first.
func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warnw("no .env file loaded, using process environment", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.New(ctx, db.Config{Addr: os.Getenv("DB_ADDR"), MaxConns: 1, AppName: "souq-migrate"})
	if err != nil {
		logger.Fatalw("connect", "err", err)
	}
	defer pool.Close()

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		logger.Fatalw("migrate", "applied", applied, "err", err)
	}
	logger.Infow("migrations done", "applied", applied)
}
