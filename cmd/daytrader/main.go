package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/daytrader/cmd/daytrader/cmd"
	"github.com/rustyeddy/daytrader/logger"
)

func main() {
	// Optional .env for API keys; absence is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	defer logger.Shutdown(context.Background())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
