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

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store/drivers/sqlite/migrations"
)

type Store struct {
	db *sql.DB
}

// NewStore opens the catalog database at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// FileDSN builds a DSN for a database file with WAL, a busy timeout and
// foreign keys enforced.
func FileDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Products() store.Products { return &productsRepo{db: s.db} }

func (s *Store) Orders() store.Orders { return &ordersRepo{db: s.db} }

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

// ============================================================================
// Products
// ============================================================================

type productsRepo struct {
	db *sql.DB
}

const listProducts = `
SELECT id, name, price, description
FROM products
ORDER BY id`

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const createProduct = `
INSERT INTO products (name, price, description)
VALUES (?, ?, ?)`

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	res, err := r.db.ExecContext(ctx, createProduct, p.Name, p.Price.String(), p.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *productsRepo) SeedProducts(ctx context.Context, products []domain.Product) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, p := range products {
		if _, err := tx.ExecContext(ctx, createProduct, p.Name, p.Price.String(), p.Description); err != nil {
			return 0, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(products), nil
}

// ============================================================================
// Orders
// ============================================================================

type ordersRepo struct {
	db *sql.DB
}

const (
	productPrice = `SELECT price FROM products WHERE id = ?`

	insertOrder = `
INSERT INTO orders (username, created_at)
VALUES (?, ?)`

	insertOrderItem = `
INSERT INTO order_items (order_id, product_id, quantity, unit_price)
VALUES (?, ?, ?, ?)`
)

func (r *ordersRepo) PlaceOrder(ctx context.Context, username string, lines []domain.OrderLine, at time.Time) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	at = at.UTC()
	res, err := tx.ExecContext(ctx, insertOrder, username, at.Format(time.RFC3339Nano))
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{ID: id, Username: username, CreatedAt: at}
	for _, line := range lines {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			continue
		}

		item := domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
		err := tx.QueryRowContext(ctx, productPrice, line.ProductID).Scan(&item.UnitPrice)
		switch {
		case err == nil:
		case errors.Is(err, sql.ErrNoRows):
			continue
		default:
			return domain.Order{}, fmt.Errorf("look up product %d: %w", line.ProductID, err)
		}

		if _, err := tx.ExecContext(ctx, insertOrderItem,
			id, item.ProductID, item.Quantity, item.UnitPrice.String()); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if len(order.Items) == 0 {
		return domain.Order{}, store.ErrNoItems
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

const (
	listOrders = `
SELECT id, username, created_at
FROM orders
WHERE username = ?
ORDER BY id DESC`

	listOrderItems = `
SELECT product_id, quantity, unit_price
FROM order_items
WHERE order_id = ?
ORDER BY id`
)

func (r *ordersRepo) ListOrders(ctx context.Context, username string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrders, username)
	if err != nil {
		return nil, err
	}

	var out []domain.Order
	for rows.Next() {
		var (
			o       domain.Order
			created string
		)
		if err := rows.Scan(&o.ID, &o.Username, &created); err != nil {
			rows.Close()
			return nil, err
		}
		if o.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, o)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Items, err = r.items(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ordersRepo) items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
