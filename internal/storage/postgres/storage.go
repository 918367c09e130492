package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool used by the storage.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

const uniqueViolation = "23505"

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type menuRepository struct {
	storage *Storage
}

type materialRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Menus() repository.MenuRepository {
	return &menuRepository{storage: s}
}

func (s *Storage) Materials() repository.MaterialRepository {
	return &materialRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id BIGSERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS menus (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            unit_price NUMERIC(10,2) NOT NULL,
            min_guests INTEGER NOT NULL CHECK (min_guests > 0),
            stock INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS materials (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS menu_materials (
            menu_id BIGINT NOT NULL REFERENCES menus(id),
            material_id BIGINT NOT NULL REFERENCES materials(id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (menu_id, material_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            menu_id BIGINT NOT NULL REFERENCES menus(id),
            service_date TIMESTAMPTZ NOT NULL,
            street TEXT NOT NULL,
            city TEXT NOT NULL,
            postal_code TEXT NOT NULL,
            phone TEXT NOT NULL,
            guest_count INTEGER NOT NULL CHECK (guest_count > 0),
            unit_price NUMERIC(10,2) NOT NULL,
            min_guests INTEGER NOT NULL,
            subtotal NUMERIC(12,2) NOT NULL,
            discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            discount_applied BOOLEAN NOT NULL DEFAULT FALSE,
            delivery_fee NUMERIC(10,2) NOT NULL,
            distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
            outside_base_zone BOOLEAN NOT NULL DEFAULT FALSE,
            total_price NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            has_review BOOLEAN NOT NULL DEFAULT FALSE,
            material_ready BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            material_returned_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS order_status_events (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL,
            actor_id BIGINT NOT NULL,
            comment TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_cancellations (
            event_id BIGINT PRIMARY KEY REFERENCES order_status_events(id),
            order_id BIGINT NOT NULL REFERENCES orders(id),
            contact_mode TEXT NOT NULL,
            reason TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS material_loans (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            material_id BIGINT NOT NULL REFERENCES materials(id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            loaned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expected_return_at TIMESTAMPTZ NOT NULL,
            returned_at TIMESTAMPTZ,
            returned BOOLEAN NOT NULL DEFAULT FALSE,
            UNIQUE (order_id, material_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_date ON orders(status, service_date)`,
		`CREATE INDEX IF NOT EXISTS idx_status_events_order ON order_status_events(order_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_material_loans_outstanding ON material_loans(expected_return_at) WHERE returned_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// mapError translates driver errors into domain errors.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domainErrors.ErrAlreadyExists
	}
	return err
}
