package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shoe-cart/internal/core/domain"
)

const (
	stockKeyPrefix = "stock:"
	DefaultCartKey = "@RocketShoes:cart"
)

var setStockScript = redis.NewScript(`
local key = KEYS[1]
local amount = tonumber(ARGV[1])

if amount < 0 then
	return 0
end

redis.call('SET', key, amount)
return 1
`)

// RedisAdapter keeps the cart as one JSON value and stock as one integer per
// product.
type RedisAdapter struct {
	client  *redis.Client
	cartKey string
}

func NewRedisAdapter(client *redis.Client, cartKey string) *RedisAdapter {
	if cartKey == "" {
		cartKey = DefaultCartKey
	}
	return &RedisAdapter{client: client, cartKey: cartKey}
}

func (r *RedisAdapter) LoadCart(ctx context.Context) (domain.Cart, error) {
	raw, err := r.client.Get(ctx, r.cartKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return decodeCart(raw)
}

func (r *RedisAdapter) SaveCart(ctx context.Context, cart domain.Cart) error {
	raw, err := encodeCart(cart)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.cartKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

func (r *RedisAdapter) FetchStock(ctx context.Context, productID int) (*domain.Stock, error) {
	amount, err := r.client.Get(ctx, stockKey(productID)).Int()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}

	return &domain.Stock{ID: productID, Amount: amount}, nil
}

// SetStock stores the available units for a product, rejecting negative values.
func (r *RedisAdapter) SetStock(ctx context.Context, productID int, amount int) (bool, error) {
	result, err := setStockScript.Run(ctx, r.client, []string{stockKey(productID)}, amount).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

func stockKey(productID int) string {
	return stockKeyPrefix + strconv.Itoa(productID)
}

func encodeCart(cart domain.Cart) ([]byte, error) {
	if cart == nil {
		cart = domain.Cart{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return raw, nil
}

func decodeCart(raw []byte) (domain.Cart, error) {
	cart := domain.Cart{}
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}
