package port

import (
	"context"

	"github.com/rl1809/shoe-cart/internal/core/domain"
)

type CartRepository interface {
	// LoadCart returns the last saved cart, or an empty cart if nothing was saved
	LoadCart(ctx context.Context) (domain.Cart, error)

	// SaveCart overwrites the saved cart with the given value
	SaveCart(ctx context.Context, cart domain.Cart) error
}
