package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cyberspace/internal/buildinfo"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server"
	"github.com/dmitrijs2005/cyberspace/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Zap().Sync() }()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "app init error", "error", err)
		return
	}

	app.Run(ctx)

}
