package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/surajkumar989/NeuralSync/internal/chat"
)

const dashboardKey = "neuralsync:dashboard_stats"

// Store caches the dashboard read model in redis. Every method fails
// open: callers treat an error the same as a cache miss, the database
// stays authoritative.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// GetDashboardStats returns redis.Nil via the error when the key is cold.
func (s *Store) GetDashboardStats(ctx context.Context) (*chat.DashboardStats, error) {
	raw, err := s.rdb.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		return nil, err
	}
	var stats chat.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Store) SetDashboardStats(ctx context.Context, stats *chat.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, dashboardKey, raw, s.ttl).Err()
}
