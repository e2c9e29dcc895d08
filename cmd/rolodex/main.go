package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rolodex-hq/rolodex-cli/internal/app"
	"github.com/rolodex-hq/rolodex-cli/internal/config"
	"github.com/rolodex-hq/rolodex-cli/internal/logger"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rolodex start failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 0, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return 0, fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli, err := app.New(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize app", "error", err)
		return 0, err
	}

	return cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr), nil
}
