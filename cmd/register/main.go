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

	"github.com/joho/godotenv"

	"ecc-register/internal/database"
	"ecc-register/internal/export"
	"ecc-register/internal/logging"
	"ecc-register/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	port := os.Getenv("REGISTER_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("REGISTER_DB_PATH")
	if dbPath == "" {
		dbPath = "register.db"
	}

	logger := logging.Setup(os.Getenv("REGISTER_LOG_LEVEL"), os.Getenv("REGISTER_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	s3Cfg := export.S3Config{
		Endpoint:  os.Getenv("REGISTER_S3_ENDPOINT"),
		Bucket:    os.Getenv("REGISTER_S3_BUCKET"),
		Region:    os.Getenv("REGISTER_S3_REGION"),
		AccessKey: os.Getenv("REGISTER_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("REGISTER_S3_SECRET_KEY"),
	}

	srv := server.New(db, s3Cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Reconciler().Start(ctx)
	defer srv.Reconciler().Stop()

	// Hourly housekeeping: expired sessions and stale rate limit windows.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Register running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
