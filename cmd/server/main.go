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

	"lireddit/internal/config"
	"lireddit/internal/db"
	"lireddit/internal/graph"
	"lireddit/internal/middleware"
	"lireddit/internal/router"
	"lireddit/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.Load()

	// Initialize Database
	database, err := db.Open(cfg.DatabaseURL, cfg.DBLog)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	schema, err := graph.NewSchema(&graph.Resolver{
		Feed:     services.NewFeedService(database),
		Posts:    services.NewPostService(database),
		Votes:    services.NewVoteService(database),
		Accounts: services.NewAccountService(database),
	})
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	store, err := middleware.NewSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to set up sessions: %v", err)
	}

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go func() {
		for {
			time.Sleep(10 * time.Minute)
			limiter.Cleanup(30 * time.Minute)
		}
	}()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	router.RegisterRoutes(r, router.Options{
		Schema:     schema,
		Store:      store,
		Limiter:    limiter,
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("GraphQL API listening on :%s/graphql", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
