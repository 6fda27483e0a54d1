package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostelhub/internal/api"
	"hostelhub/internal/config"
	"hostelhub/internal/realtime"
	"hostelhub/internal/repository/mongo"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting HostelHub Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureComplaintIndexes(ctx, appDB.Collection("complaints"))
		mongo.EnsureNoticeIndexes(ctx, appDB.Collection("notices"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	complaintRepo := mongo.NewMongoComplaintRepository(appDB)
	noticeRepo := mongo.NewMongoNoticeRepository(appDB)

	// --- Initialize Realtime Core ---
	log.Println("Initializing realtime coordination layer...")
	hub := realtime.NewHub()
	registry := realtime.NewRegistry()
	relay := realtime.NewRelay(registry, cfg.Relay.MaxFileSize, cfg.Relay.RequestTTL)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	complaintService := service.NewComplaintService(complaintRepo, hub)
	noticeService := service.NewNoticeService(noticeRepo)
	roomService := service.NewRoomService()
	feedbackService := service.NewFeedbackService(hub, cfg.Feedback.DailyQuota)

	gateway := realtime.NewGateway(hub, registry, relay, feedbackService, complaintService)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, gateway, authService, complaintService, noticeService, roomService, feedbackService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: websocket connections on /ws outlive any
		// sensible per-response deadline.
		IdleTimeout: 120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
