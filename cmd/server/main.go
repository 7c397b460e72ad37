// Package main initializes and starts the authgate HTTP server, wiring
// configuration, logging, the user store, the session-service client,
// the authentication service and the router.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/sessionworks/authgate/internal/config"
	"github.com/sessionworks/authgate/internal/db"
	"github.com/sessionworks/authgate/internal/logger"
	"github.com/sessionworks/authgate/internal/repository"
	"github.com/sessionworks/authgate/internal/server/handler/http"
	"github.com/sessionworks/authgate/internal/service"
	"github.com/sessionworks/authgate/internal/session"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize the PostgreSQL-backed user store.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Wire the repositories and the external session-service client.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionClient := session.NewClient(options.SessionServiceURL)

	// Initialize the business-logic service and its handler.
	authService := service.NewAuthService(userRepo, sessionClient)
	authHandler := &http.AuthHandler{AuthService: authService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, zapLogger, options.AllowedOrigins())

	server := &nethttp.Server{
		Addr:         options.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-done
	zapLogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
