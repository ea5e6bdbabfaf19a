package port

import (
	"context"

	"github.com/rl1809/shoe-cart/internal/core/domain"
)

type CatalogRepository interface {
	// FetchProduct returns the catalog entry for a product, nil if the id is unknown
	FetchProduct(ctx context.Context, productID int) (*domain.Product, error)
}

type StockRepository interface {
	// FetchStock returns the units available for a product, nil if the id is unknown
	FetchStock(ctx context.Context, productID int) (*domain.Stock, error)
}
