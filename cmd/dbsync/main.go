package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardano-node-tests/dbsyncx/app/cli"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	code := cli.Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
