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

	"lireddit/internal/client"
	"lireddit/internal/config"
	"lireddit/internal/handlers"
	"lireddit/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	tmpl, err := handlers.LoadTemplates("./web/templates")
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	r.HTMLRender = tmpl
	r.Static("/static", "./web/static")

	// 每个浏览器一个 API 客户端，空闲两小时后回收
	clients, err := utils.NewTTLCache[*client.Client](cfg.WebClientCacheSize, 2*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create client cache: %v", err)
	}

	handlers.RegisterRoutes(r, handlers.Options{
		Store:     handlers.NewWebStore(cfg),
		Clients:   clients,
		NewClient: func() *client.Client { return client.New(cfg.APIURL) },
		PageSize:  cfg.FeedPageSize,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.WebPort,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Web client listening on :%s (API %s)", cfg.WebPort, cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down web client...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
