package main

import (
	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/models"
	"github.com/moringadesk/moringadesk/routes"
	"github.com/moringadesk/moringadesk/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.FollowUp{},
		&models.Vote{},
		&models.Notification{},
		&models.Category{},
		&models.FAQ{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
