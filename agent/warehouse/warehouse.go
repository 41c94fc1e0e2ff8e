package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" split_words:"true" default:"10s"`
	QueryTimeout time.Duration `envconfig:"QUERY_TIMEOUT" split_words:"true" default:"30s"`
}

// Warehouse wraps the retail warehouse connection. Every query it exposes is
// a parameterized read; tool arguments never reach SQL text directly.
type Warehouse struct {
	db           *bun.DB
	queryTimeout time.Duration
}

func Open(cfg Config) (*Warehouse, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("warehouse dsn is required")
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	queryTimeout := cfg.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithDialTimeout(dialTimeout),
		pgdriver.WithReadTimeout(queryTimeout),
		pgdriver.WithWriteTimeout(queryTimeout),
	))

	return &Warehouse{
		db:           bun.NewDB(sqldb, pgdialect.New()),
		queryTimeout: queryTimeout,
	}, nil
}

// NewWithDB wires an existing bun connection, used by the seeder and tests.
func NewWithDB(db *bun.DB) *Warehouse {
	return &Warehouse{db: db, queryTimeout: 30 * time.Second}
}

func (w *Warehouse) DB() *bun.DB {
	return w.db
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

// Ping verifies connectivity and returns the sales fact row count.
func (w *Warehouse) Ping(ctx context.Context) (int, error) {
	if err := w.db.PingContext(ctx); err != nil {
		return 0, err
	}
	return w.db.NewSelect().Model((*DailySale)(nil)).Count(ctx)
}

func (w *Warehouse) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, w.queryTimeout)
}
