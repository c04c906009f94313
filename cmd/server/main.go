package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shannu/tdp-shell/internal/config"
	"github.com/shannu/tdp-shell/internal/logger"
	"github.com/shannu/tdp-shell/internal/sender"
)

func main() {
	config.LoadConfig()

	log := logger.New(logger.FromConfig(config.AppConfig.LogLevel, config.AppConfig.LogFormat))

	// Set Gin mode
	gin.SetMode(config.AppConfig.GinMode)

	ctx := context.Background()

	if config.AppConfig.FirebaseCredJSON == "" {
		log.Error("FIREBASE_CRED_JSON is required for the push backend")
		os.Exit(1)
	}

	firebaseClient, err := sender.NewFirebaseClient(ctx, config.AppConfig.FirebaseProjectID, config.AppConfig.FirebaseCredJSON)
	if err != nil {
		log.Error("failed to initialize firebase client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer firebaseClient.Close()

	// Initialize services
	pushService := sender.NewService(
		firebaseClient,
		log,
		config.AppConfig.PushNotificationsEnabled,
		config.AppConfig.FirebaseProjectID,
		config.AppConfig.FirebaseCredJSON,
	)

	// Initialize handlers
	pushHandler := sender.NewHandler(pushService, log)

	// Initialize Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/health", pushHandler.HealthCheck)

	// Push notification API routes
	notifications := router.Group("/notifications")
	{
		notifications.POST("/token", pushHandler.RegisterToken)
		notifications.POST("/send", pushHandler.SendPush)
	}

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: router,
	}

	go func() {
		log.Info("push backend starting", slog.String("port", config.AppConfig.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down push backend")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(config.AppConfig.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", slog.String("error", err.Error()))
	}
}
