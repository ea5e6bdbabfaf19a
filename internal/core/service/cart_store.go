package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/shoe-cart/internal/core/domain"
	"github.com/rl1809/shoe-cart/internal/port"
)

const (
	opAdd    = "add product"
	opRemove = "remove product"
	opUpdate = "update product amount"

	saveTimeout = 5 * time.Second
)

var tracer = otel.Tracer("github.com/rl1809/shoe-cart/internal/core/service")

type UpdateProductAmount struct {
	ProductID int
	Amount    int
}

// CartStore owns the in-memory cart and keeps the saved copy in step with it.
// Mutations are serialized by writeMu, which is held across fetches; the
// saved cart is written before memory is replaced, so a failed mutation
// leaves both untouched. mu only guards the cart field, so reads never wait
// on a fetch.
type CartStore struct {
	writeMu sync.Mutex

	mu   sync.RWMutex
	cart domain.Cart

	catalog  port.CatalogRepository
	stock    port.StockRepository
	storage  port.CartRepository
	notifier port.Notifier
}

type discardNotifier struct{}

func (discardNotifier) Notify(string) {}

func NewCartStore(ctx context.Context, catalog port.CatalogRepository, stock port.StockRepository, storage port.CartRepository, notifier port.Notifier) (*CartStore, error) {
	cart, err := storage.LoadCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}

	return &CartStore{
		cart:     cart,
		catalog:  catalog,
		stock:    stock,
		storage:  storage,
		notifier: notifier,
	}, nil
}

func (s *CartStore) GetCart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

func (s *CartStore) AddProduct(ctx context.Context, productID int) error {
	ctx, span := tracer.Start(ctx, "CartStore.AddProduct", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	s.writeMu.Lock()
	err := s.addProduct(ctx, productID)
	s.writeMu.Unlock()

	return s.report(span, err)
}

func (s *CartStore) RemoveProduct(ctx context.Context, productID int) error {
	ctx, span := tracer.Start(ctx, "CartStore.RemoveProduct", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	s.writeMu.Lock()
	err := s.removeProduct(ctx, productID)
	s.writeMu.Unlock()

	return s.report(span, err)
}

func (s *CartStore) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	ctx, span := tracer.Start(ctx, "CartStore.UpdateProductAmount", trace.WithAttributes(
		attribute.Int("product.id", req.ProductID),
		attribute.Int("product.amount", req.Amount),
	))
	defer span.End()

	s.writeMu.Lock()
	err := s.updateProductAmount(ctx, req)
	s.writeMu.Unlock()

	return s.report(span, err)
}

func (s *CartStore) addProduct(ctx context.Context, productID int) error {
	stock, product, err := s.fetchStockAndProduct(ctx, productID)
	if err != nil {
		return fail(opAdd, ErrUnavailable, msgAddFailed, err)
	}

	existing, ok := s.cart.Find(productID)
	if !ok {
		// A new line item is not checked against stock, even when stock is 0.
		item := *product
		item.ID = productID
		item.Amount = 1
		return s.commit(ctx, opAdd, msgAddFailed, append(s.cart.Clone(), item))
	}

	if existing.Amount >= stock.Amount {
		return fail(opAdd, ErrStockExceeded, msgStockExceeded, nil)
	}

	return s.commit(ctx, opAdd, msgAddFailed, s.withAmount(productID, existing.Amount+1))
}

func (s *CartStore) removeProduct(ctx context.Context, productID int) error {
	next := make(domain.Cart, 0, len(s.cart))
	for _, item := range s.cart {
		if item.ID != productID {
			next = append(next, item)
		}
	}

	if len(next) == len(s.cart) {
		return fail(opRemove, ErrProductNotFound, msgRemoveFailed, nil)
	}

	return s.commit(ctx, opRemove, msgRemoveFailed, next)
}

func (s *CartStore) updateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	if req.Amount <= 0 {
		return fail(opUpdate, ErrInvalidAmount, msgUpdateFailed, nil)
	}

	stock, err := s.stock.FetchStock(ctx, req.ProductID)
	if err != nil {
		return fail(opUpdate, ErrUnavailable, msgUpdateFailed, fmt.Errorf("fetch stock: %w", err))
	}
	if stock == nil {
		return fail(opUpdate, ErrUnavailable, msgUpdateFailed, fmt.Errorf("no stock record for product %d", req.ProductID))
	}

	if stock.Amount-req.Amount < 0 {
		return fail(opUpdate, ErrStockExceeded, msgStockExceeded, nil)
	}

	// Updating a product that is not in the cart saves the cart unchanged.
	return s.commit(ctx, opUpdate, msgUpdateFailed, s.withAmount(req.ProductID, req.Amount))
}

func (s *CartStore) fetchStockAndProduct(ctx context.Context, productID int) (*domain.Stock, *domain.Product, error) {
	var (
		stock   *domain.Stock
		product *domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if stock, err = s.stock.FetchStock(gctx, productID); err != nil {
			return fmt.Errorf("fetch stock: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if product, err = s.catalog.FetchProduct(gctx, productID); err != nil {
			return fmt.Errorf("fetch product: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if stock == nil {
		return nil, nil, fmt.Errorf("no stock record for product %d", productID)
	}
	if product == nil {
		return nil, nil, fmt.Errorf("no catalog entry for product %d", productID)
	}

	return stock, product, nil
}

func (s *CartStore) withAmount(productID, amount int) domain.Cart {
	next := s.cart.Clone()
	for i := range next {
		if next[i].ID == productID {
			next[i].Amount = amount
		}
	}
	return next
}

// commit saves next and only then makes it the in-memory cart. The save is
// detached from the caller's cancellation so a deadline firing mid-write
// cannot leave storage ahead of memory; saveTimeout bounds it instead.
func (s *CartStore) commit(ctx context.Context, op, message string, next domain.Cart) error {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.storage.SaveCart(saveCtx, next); err != nil {
		return fail(op, ErrUnavailable, message, fmt.Errorf("save cart: %w", err))
	}

	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()
	return nil
}

func (s *CartStore) report(span trace.Span, err error) error {
	if err == nil {
		return nil
	}

	message := UserMessage(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	s.notifier.Notify(message)

	return err
}
