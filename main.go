package main

import (
	"github.com/cppla/hasker/config"
	"github.com/cppla/hasker/routes"
	"github.com/cppla/hasker/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(cfg)
	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.App.Port)
	if err := utils.GraceServer(":"+cfg.App.Port, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
