package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edugame/backend/internal/activity"
	"edugame/backend/internal/auth"
	"edugame/backend/internal/config"
	"edugame/backend/internal/database"
	"edugame/backend/internal/handler"
	"edugame/backend/internal/hub"
	"edugame/backend/internal/middleware"
	"edugame/backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	// Swagger imports
	_ "edugame/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func serve(ctx context.Context, cfg *config.Config) error {
	logger := cfg.NewLogger()
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	var publisher activity.Publisher = activity.Nop{}
	if cfg.RedisAddr != "" {
		client, err := activity.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = activity.NewRedisPublisher(client, cfg.ActivityQueue)
		logger.WithField("queue", cfg.ActivityQueue).Info("Publishing lobby activity to Redis")
	}

	lobbyHub := hub.NewHub(logger)
	h := &handler.Handler{
		Lobbies:          database.NewLobbyStore(db),
		Participants:     database.NewParticipantStore(db),
		Scores:           database.NewScoreStore(db),
		Hub:              lobbyHub,
		Activity:         publisher,
		Log:              logger,
		LeaderboardLimit: cfg.LeaderboardLimit,
		MaxParticipants:  cfg.MaxParticipants,
	}

	router := gin.New()
	router.Use(middleware.LogMiddleware(logger), gin.Recovery())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Realtime lobby channel
	router.GET("/ws", auth.OptionalAuthMiddleware(cfg.JWTSecret), ws.Handler(lobbyHub, logger, ws.Options{
		OriginPatterns: cfg.Origins(),
		Authorize:      h.CanSubscribe,
	}))

	h.RegisterRoutes(router, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with ctx so open websocket sessions close on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		logger.Infof("Swagger UI is available at http://localhost:%d/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err, ok := <-errs:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
