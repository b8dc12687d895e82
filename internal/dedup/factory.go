package dedup

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderstream/notifier/internal/config"
)

// NewStore creates a Store based on the application configuration: Redis if
// REDIS_URL is set, the database if a pool is available, and otherwise a
// process-local store (which cannot catch duplicates across restarts).
func NewStore(cfg *config.Config, pool *pgxpool.Pool) (Store, error) {
	if cfg.RedisURL != "" {
		log.Println("dedup: using RedisStore")
		return NewRedisStore(cfg.RedisURL)
	}

	if pool != nil {
		log.Println("dedup: using PostgresStore")
		return NewPostgresStore(pool), nil
	}

	log.Println("WARNING: dedup: using MemoryStore, duplicates will not be caught across restarts")
	return NewMemoryStore(), nil
}
