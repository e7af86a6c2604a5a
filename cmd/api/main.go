package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"anime-news/api/server"
	"anime-news/config"
	"anime-news/services"
)

// @title           Anime News API
// @version         1.0
// @description     Article listings, per-visitor view tracking and route resolution for the anime news portal
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := services.NewApp(ctx, &cfg)
	if err != nil {
		config.Logger.Fatalf("api: init: %v", err)
	}
	defer app.Close()

	if err := server.Run(ctx, app); err != nil {
		config.Logger.Errorf("api: %v", err)
		app.Close()
		os.Exit(1)
	}
}
