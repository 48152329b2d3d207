package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tccapi"
	"tccapi/internal/api/handler/endpoints"
	"tccapi/internal/api/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	tccapi.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if tccapi.GetConfig().Mode == "dev" {
		if err := tccapi.DB.AutoMigrate(
			&models.User{},
			&models.Trabalho{},
			&models.Message{},
			&models.TrabalhoFile{},
		); err != nil {
			tccapi.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		tccapi.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	if err := os.MkdirAll(tccapi.GetConfig().UploadConfig.Dir, 0o770); err != nil {
		tccapi.Logger.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(tccapi.GetConfig().ApiPort))
	if err != nil {
		panic(err)
	}
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	initAPI(router)

	tccapi.Logger.Debug().Msgf("Starting TCC API on port %s", tccapi.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		tccapi.Logger.Fatal().Msg(err.Error())
		panic(err)
	}
}

func initAPI(router *graceful.Graceful) {
	endpoints.AuthHandler(router)
	endpoints.TrabalhoHandler(router)
}
