package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/chat"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/config"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/database"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/handlers"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/middleware"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/notify"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/routes"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/store"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := config.LoadConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	svc := chat.NewService(store.NewPostgres(db),
		chat.WithDefaultMaxParticipants(cfg.Chat.MaxGroupParticipants))

	// Notification dispatcher consumes the message feed so delivery
	// never blocks message appends.
	if *cfg.Notifications.Enabled {
		events, cancel := svc.Subscribe(256)
		defer cancel()

		ncfg := notify.DefaultConfig()
		ncfg.Vibrate = *cfg.Notifications.Vibrate
		ncfg.ShowAlert = cfg.Notifications.ShowAlert
		ncfg.Debounce = time.Duration(cfg.Notifications.DebounceMS) * time.Millisecond

		dispatcher := notify.NewDispatcher(notify.LogCue{}, ncfg)
		defer dispatcher.Close()
		go dispatcher.Run(events)
	}

	groupHandler := handlers.NewGroupHandler(svc)
	messageHandler := handlers.NewMessageHandler(svc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.UserExtractionMiddleware())
	r.Use(middleware.CustomLoggingMiddleware())

	routes.SetupRoutes(r, groupHandler, messageHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on port %d", cfg.Server.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
