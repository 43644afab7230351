package main

import (
	"context"
	"embed"
	"os"

	"github.com/ghuser/exportdesk/pkg/config"
	"github.com/ghuser/exportdesk/pkg/logger"
	"github.com/ghuser/exportdesk/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, MigrationsFS, log); err != nil {
		log.Error("order migrations failed", "error", err)
		os.Exit(1)
	}
}
