package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forumkit/forumkit/internal/authz"
	"github.com/forumkit/forumkit/internal/config"
	httpapp "github.com/forumkit/forumkit/internal/http"
	"github.com/forumkit/forumkit/internal/rate"
	"github.com/forumkit/forumkit/internal/store/sqlite"
	"github.com/forumkit/forumkit/internal/webhook"
)

func main() {
	cfg := config.Load()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer store.Close()

	resolver := authz.NewResolver(store, cfg.MasterKey)
	dispatcher := webhook.NewDispatcher(store, cfg.WebhookTimeout)
	limiter := rate.NewMemory()

	server := httpapp.NewServer(store, resolver, dispatcher, limiter, cfg)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("forumkit listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}
