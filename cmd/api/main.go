package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"chanstat/adapters/excel"
	"chanstat/adapters/gonumdist"
	"chanstat/adapters/postgres"
	"chanstat/adapters/stats/engine"
	"chanstat/app"
	"chanstat/internal"
	"chanstat/internal/config"
	"chanstat/ports"
	"chanstat/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := internal.NewDefaultLogger()
	gin.SetMode(cfg.Server.GinMode)

	var store ports.ResultStorePort
	if cfg.Database.URL != "" {
		repo, err := postgres.Connect(context.Background(), cfg.Database.URL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer repo.Close()
		store = repo
		logger.Info("result store connected")
	} else {
		logger.Warn("DATABASE_URL not set, runs will not be persisted")
	}

	eng := engine.NewEngine(gonumdist.New(), engine.WithWorkers(cfg.Compute.Workers))
	service := app.NewAnalysisService(eng, excel.NewReader(""), store)

	server := ui.NewServer(service, store, logger)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
