package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/DRSN-tech/product-api/internal/app"
	config "github.com/DRSN-tech/product-api/internal/cfg"
	"github.com/DRSN-tech/product-api/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title			Product API
//	@version		1.0
//	@description	CRUD API каталога товаров
//	@BasePath		/api
func main() {
	// .env необязателен, переменные окружения имеют приоритет
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.NewSlogLogger().Errorf(err, "failed to read .env")
		os.Exit(1)
	}

	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
