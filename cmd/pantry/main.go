package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/config"
	"github.com/vietnoy/pantry/internal/database"
	"github.com/vietnoy/pantry/internal/logging"
	"github.com/vietnoy/pantry/internal/mailer"
	"github.com/vietnoy/pantry/internal/server"
	"github.com/vietnoy/pantry/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	sender, err := mailer.NewSESSender(context.Background(), cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, logger.With("component", "ses"))
	if err != nil {
		log.Fatalf("failed to set up email sender: %v", err)
	}
	mail := mailer.New(sender, logger.With("component", "mailer"))
	defer mail.Close()

	uploader := storage.NewUploader(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	}, logger.With("component", "storage"))

	tokens := auth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	srv := server.New(db, tokens, mail, uploader, logger)

	// Periodic sweep of expired rate limit entries
	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-stopCleanup:
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Pantry running at http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(stopCleanup)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
