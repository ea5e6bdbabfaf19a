package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/shoe-cart/internal/core/domain"
)

var ErrNegativeStock = errors.New("stock amount must not be negative")

// MySQLAdapter reads the product catalog and stock levels.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) FetchProduct(ctx context.Context, productID int) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, title, price, image
		FROM products WHERE id = ?`, productID,
	).Scan(&p.ID, &p.Title, &price, &p.Image)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price of product %d: %w", productID, err)
	}

	return &p, nil
}

func (m *MySQLAdapter) FetchStock(ctx context.Context, productID int) (*domain.Stock, error) {
	var s domain.Stock
	err := m.db.QueryRowContext(ctx, `
		SELECT product_id, amount
		FROM stock WHERE product_id = ?`, productID,
	).Scan(&s.ID, &s.Amount)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}

	return &s, nil
}

// SetStock upserts the available units for a product.
func (m *MySQLAdapter) SetStock(ctx context.Context, stock domain.Stock) error {
	if stock.Amount < 0 {
		return ErrNegativeStock
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO stock (product_id, amount, updated_at) VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE amount = VALUES(amount), updated_at = NOW()`,
		stock.ID, stock.Amount,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}

	return nil
}
