package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/elite/internal/buildinfo"
	"github.com/dmitrijs2005/elite/internal/client/cli"
	"github.com/dmitrijs2005/elite/internal/client/config"
	"github.com/dmitrijs2005/elite/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.Production())

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
