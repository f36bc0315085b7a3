package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logger"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	// .envが無くても環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "dev")
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.GoEnv).With().Str("service", "product-service").Logger()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := gormDB.AutoMigrate(&model.Product{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	productRepo := infraRepo.NewProductGormRepository(gormDB)
	productUC := usecase.NewProductUsecase(productRepo)
	productH := handler.NewProductHandler(productUC)

	e := server.New(log)
	productH.RegisterRoutes(e)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting product-service")
	if err := server.Start(e, addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
