package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/snapplate/snapplate/internal/ai"
	"github.com/snapplate/snapplate/internal/api"
	"github.com/snapplate/snapplate/internal/config"
	"github.com/snapplate/snapplate/internal/store"
)

func main() {
	// Optional; the environment wins over the .env file.
	_ = godotenv.Load()

	cfg := config.FromEnv()

	backend, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	handler := api.NewHandler(cfg, backend, ai.NewClient())

	app := fiber.New(fiber.Config{
		AppName:               "Snapplate",
		BodyLimit:             16 * 1024 * 1024, // photos arrive base64-encoded
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Snapplate listening on http://0.0.0.0:%s (db: %s)", cfg.Port, cfg.DBPath)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
