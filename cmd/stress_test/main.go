package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/shoe-cart/internal/adapter/storage"
	"github.com/rl1809/shoe-cart/internal/core/domain"
	"github.com/rl1809/shoe-cart/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	cartKey       = "stress:cart"
	productID     = 1
	initialStock  = 20
	totalRequests = 50
)

// staticCatalog answers every lookup with the same product.
type staticCatalog struct{}

func (staticCatalog) FetchProduct(ctx context.Context, id int) (*domain.Product, error) {
	return &domain.Product{
		ID:    id,
		Title: "Tênis de Caminhada Leve Confortável",
		Price: decimal.RequireFromString("179.90"),
	}, nil
}

func main() {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, cartKey, fmt.Sprintf("stock:%d", productID))

	// Initialize adapter and store
	redisAdapter := storage.NewRedisAdapter(rdb, cartKey)
	if ok, err := redisAdapter.SetStock(ctx, productID, initialStock); err != nil || !ok {
		log.Fatalf("failed to set stock: ok=%v err=%v", ok, err)
	}

	var notifications atomic.Int32
	cartStore, err := service.NewCartStore(ctx, staticCatalog{}, redisAdapter, redisAdapter, notifyCounter{&notifications})
	if err != nil {
		log.Fatalf("failed to create cart store: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var stockExceeded atomic.Int32
	var otherCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := cartStore.AddProduct(ctx, productID)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, service.ErrStockExceeded):
				stockExceeded.Add(1)
			default:
				otherCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	saved, err := redisAdapter.LoadCart(ctx)
	if err != nil {
		log.Fatalf("failed to read saved cart: %v", err)
	}
	inMemory := cartStore.GetCart()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total requests:   %d\n", totalRequests)
	fmt.Printf("Successful adds:  %d\n", successCount.Load())
	fmt.Printf("Stock exceeded:   %d\n", stockExceeded.Load())
	fmt.Printf("Other failures:   %d\n", otherCount.Load())
	fmt.Printf("Notifications:    %d\n", notifications.Load())
	fmt.Printf("Elapsed:          %v\n", elapsed)

	item, _ := inMemory.Find(productID)
	savedItem, _ := saved.Find(productID)
	fmt.Printf("Cart amount:      %d (saved %d, stock %d)\n", item.Amount, savedItem.Amount, initialStock)
	fmt.Println("==========================================")

	if item.Amount != initialStock || savedItem.Amount != item.Amount {
		log.Fatalf("FAIL: cart amount %d, saved %d, expected %d", item.Amount, savedItem.Amount, initialStock)
	}
	fmt.Println("PASS: cart never exceeded stock and saved cart matches memory")
}

type notifyCounter struct {
	n *atomic.Int32
}

func (c notifyCounter) Notify(string) {
	c.n.Add(1)
}
