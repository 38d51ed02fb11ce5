package main

import (
	"context"

	"github.com/cppla/chanceboard/config"
	"github.com/cppla/chanceboard/draws"
	"github.com/cppla/chanceboard/models"
	"github.com/cppla/chanceboard/routes"
	"github.com/cppla/chanceboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(&models.ChatMessage{}, &models.DailyVisit{})

	cache := draws.NewCache(utils.Logger.Named("dataset"))
	source := cache.Source(cfg.WorkbookPath, cfg.WorkbookSheet)
	// The dashboard still serves chat when the workbook is broken; dataset routes answer 503
	if ds, err := source.Dataset(); err != nil {
		utils.Sugar.Warnw("workbook not loaded", "path", cfg.WorkbookPath, "error", err)
	} else {
		utils.Sugar.Infow("workbook loaded", "path", cfg.WorkbookPath, "records", len(ds.Records))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.WatchWorkbook {
		go func() {
			if err := cache.Watch(ctx, cfg.WorkbookPath); err != nil {
				utils.Sugar.Errorw("workbook watcher stopped", "error", err)
			}
		}()
	}

	r := routes.SetupRouter(db, source)

	srv := utils.GraceServer(":"+cfg.AppPort, r)
	srv.OnShutdown(cancel)
	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
