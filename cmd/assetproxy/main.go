package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/budgetkeeper/internal/assetproxy"
	"github.com/dmitrijs2005/budgetkeeper/internal/assetproxy/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		return
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	app, err := assetproxy.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
