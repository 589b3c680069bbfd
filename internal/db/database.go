package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betlegend/sitetools/internal/store"
)

// InitDB connects to Postgres and makes sure the run-history tables exist.
// Startup cannot continue without them, so failures are fatal.
func InitDB(dsn string) *pgxpool.Pool {
	if dsn == "" {
		log.Fatal("database.url (BL_DATABASE_URL) is required")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatalf("Unable to parse database URL: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("Database ping failed: %v", err)
	}

	if err := store.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("Database schema: %v", err)
	}

	fmt.Println("Connected to Database")
	return pool
}
