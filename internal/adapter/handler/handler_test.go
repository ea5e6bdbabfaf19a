package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rl1809/shoe-cart/internal/adapter/notify"
	"github.com/rl1809/shoe-cart/internal/core/domain"
	"github.com/rl1809/shoe-cart/internal/core/service"
)

// fakeBackend serves products, stock and cart storage from memory.
type fakeBackend struct {
	mu    sync.Mutex
	stock map[int]int
	saved domain.Cart
}

func (f *fakeBackend) FetchProduct(ctx context.Context, productID int) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.stock[productID]; !ok {
		return nil, nil
	}
	return &domain.Product{
		ID:    productID,
		Title: "Tênis de Caminhada Leve Confortável",
		Price: decimal.RequireFromString("179.90"),
		Image: "https://example.com/shoe.jpg",
	}, nil
}

func (f *fakeBackend) FetchStock(ctx context.Context, productID int) (*domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	amount, ok := f.stock[productID]
	if !ok {
		return nil, nil
	}
	return &domain.Stock{ID: productID, Amount: amount}, nil
}

func (f *fakeBackend) LoadCart(ctx context.Context) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved.Clone(), nil
}

func (f *fakeBackend) SaveCart(ctx context.Context, cart domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = cart.Clone()
	return nil
}

func newCartStore(t *testing.T, initial domain.Cart) (*service.CartStore, *notify.Recorder) {
	t.Helper()

	backend := &fakeBackend{stock: map[int]int{1: 3, 2: 10}, saved: initial}
	recorder := notify.NewRecorder(10)
	store, err := service.NewCartStore(context.Background(), backend, backend, backend, recorder)
	if err != nil {
		t.Fatalf("NewCartStore failed: %v", err)
	}
	return store, recorder
}
