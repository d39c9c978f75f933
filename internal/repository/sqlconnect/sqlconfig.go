package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool bounds the connections the catalog keeps to Postgres. Zero fields
// take the defaults from DefaultPool.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

func DefaultPool() Pool {
	return Pool{
		MaxOpen:     20,
		MaxIdle:     5,
		MaxIdleTime: 5 * time.Minute,
		MaxLifetime: 30 * time.Minute,
		PingTimeout: 3 * time.Second,
	}
}

func (p Pool) withDefaults() Pool {
	d := DefaultPool()
	if p.MaxOpen <= 0 {
		p.MaxOpen = d.MaxOpen
	}
	if p.MaxIdle <= 0 {
		p.MaxIdle = d.MaxIdle
	}
	if p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}
	if p.MaxIdleTime <= 0 {
		p.MaxIdleTime = d.MaxIdleTime
	}
	if p.MaxLifetime <= 0 {
		p.MaxLifetime = d.MaxLifetime
	}
	if p.PingTimeout <= 0 {
		p.PingTimeout = d.PingTimeout
	}
	return p
}

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

// ConnectDB opens the catalog database through pgx and waits for one ping.
func ConnectDB(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("catalog database: DATABASE_URL not set")
	}
	pool = pool.withDefaults()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog database: open: %w", err)
	}
	pool.apply(db)

	pctx, cancel := context.WithTimeout(ctx, pool.PingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog database: ping: %w", err)
	}
	return db, nil
}
