package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/surajkumar989/NeuralSync/internal/ai"
	"github.com/surajkumar989/NeuralSync/internal/chat"
	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/db"
)

func auditBatch() int {
	v := os.Getenv("AUDIT_BATCH")
	if v == "" {
		return 500
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 500
	}
	if n > 5000 {
		return 5000
	}
	return n
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	repo := chat.NewRepo(gdb)
	svc := chat.NewService(repo, ai.NewResolver(nil, nil, ai.GenerationConfig{}, 0), chat.SystemClock(), chat.RateLimit{}, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch := auditBatch()
	log.Printf("audit started driver=%s batch=%d", cfg.DBDriver, batch)

	start := time.Now()
	scanned, mismatched, err := svc.AuditTurns(ctx, batch)
	if err != nil {
		log.Fatalf("audit aborted after %d turns: %v", scanned, err)
	}

	log.Printf("audit finished scanned=%d mismatched=%d cost=%s", scanned, len(mismatched), time.Since(start))
	if len(mismatched) > 0 {
		for _, id := range mismatched {
			log.Printf("digest mismatch turn=%d", id)
		}
		os.Exit(1)
	}
}
