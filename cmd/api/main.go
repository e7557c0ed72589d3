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

	"github.com/joho/godotenv"
	"github.com/surajkumar989/NeuralSync/internal/chat"
	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/db"
	"github.com/surajkumar989/NeuralSync/internal/httpapi"
	"github.com/surajkumar989/NeuralSync/internal/store/rabbitmq"
	"github.com/surajkumar989/NeuralSync/internal/store/redisstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := chat.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// stats cache is optional; a dead redis only disables it
	var rds *redisstore.Store
	if cfg.RedisAddr != "" {
		rds = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, time.Duration(cfg.StatsCacheTTLSeconds)*time.Second)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rds.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Printf("redis unavailable, stats cache disabled: %v", err)
			_ = rds.Close()
			rds = nil
		} else {
			log.Printf("stats cache enabled addr=%s ttl=%ds", cfg.RedisAddr, cfg.StatsCacheTTLSeconds)
		}
	}

	// turn events are optional too
	var pub chat.TurnPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Printf("rabbit unavailable, turn events disabled: %v", err)
		} else {
			defer p.Close()
			pub = p
			log.Printf("turn events enabled queue=%s", cfg.RabbitQueue)
		}
	}

	r := httpapi.NewRouter(gdb, cfg, rds, pub)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening addr=%s driver=%s provider=%q", cfg.HTTPAddr, cfg.DBDriver, cfg.AIProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatalf("http server: %v", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
