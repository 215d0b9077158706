package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/aussiebroadwan/shopgate/internal/orders/domain"
	"github.com/aussiebroadwan/shopgate/internal/orders/store"
	"github.com/aussiebroadwan/shopgate/internal/orders/store/drivers/sqlite/migrations"
)

type Store struct {
	db *sql.DB
}

// NewStore opens the purchase database at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// FileDSN builds a DSN for a database file with WAL and a busy timeout.
func FileDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Purchases() store.Purchases { return &purchasesRepo{db: s.db} }

// ApplyMigrations applies any pending embedded migrations.
func (s *Store) ApplyMigrations() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}
	instance, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

type purchasesRepo struct {
	db *sql.DB
}

const addPurchase = `
INSERT INTO purchases (id, username, article_name, created_at)
VALUES (?, ?, ?, ?)`

func (r *purchasesRepo) AddPurchase(ctx context.Context, p domain.Purchase) error {
	_, err := r.db.ExecContext(ctx, addPurchase,
		p.ID, p.Username, p.ArticleName, p.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// ULIDs sort by creation time, so id order is purchase order.
const listPurchases = `
SELECT id, username, article_name, created_at
FROM purchases
WHERE username = ?
ORDER BY id`

func (r *purchasesRepo) ListPurchases(ctx context.Context, username string) ([]domain.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, listPurchases, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Purchase
	for rows.Next() {
		var (
			p       domain.Purchase
			created string
		)
		if err := rows.Scan(&p.ID, &p.Username, &p.ArticleName, &created); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
