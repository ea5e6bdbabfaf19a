package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/shoe-cart/internal/adapter/catalogapi"
	"github.com/rl1809/shoe-cart/internal/adapter/handler"
	"github.com/rl1809/shoe-cart/internal/adapter/notify"
	"github.com/rl1809/shoe-cart/internal/adapter/storage"
	"github.com/rl1809/shoe-cart/internal/config"
	"github.com/rl1809/shoe-cart/internal/core/service"
	"github.com/rl1809/shoe-cart/internal/port"
	"github.com/rl1809/shoe-cart/internal/telemetry"
)

const notificationHistory = 20

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Tracing
	if cfg.OTLPEndpoint != "" {
		shutdownTracing, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("failed to init tracing: %v", err)
		}
		defer shutdownTracing(context.Background())
		log.Printf("tracing to %s", cfg.OTLPEndpoint)
	}

	// Initialize MySQL
	var db *sql.DB
	if cfg.NeedsMySQL() {
		var err error
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		log.Println("connected to mysql")
	}

	// Initialize Redis
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		log.Println("connected to redis")
	}

	// Initialize adapters
	apiClient := catalogapi.NewClient(cfg.CatalogAPIURL, cfg.FetchTimeout)

	var catalog port.CatalogRepository
	switch cfg.CatalogSource {
	case config.SourceMySQL:
		catalog = storage.NewMySQLAdapter(db)
	case config.SourceAPI:
		catalog = apiClient
	default:
		log.Fatalf("unknown catalog source %q", cfg.CatalogSource)
	}

	var stock port.StockRepository
	switch cfg.StockSource {
	case config.SourceMySQL:
		stock = storage.NewMySQLAdapter(db)
	case config.SourceRedis:
		stock = storage.NewRedisAdapter(rdb, cfg.CartKey)
	case config.SourceAPI:
		stock = apiClient
	default:
		log.Fatalf("unknown stock source %q", cfg.StockSource)
	}

	var cartRepo port.CartRepository
	switch cfg.CartStorage {
	case config.SourceRedis:
		cartRepo = storage.NewRedisAdapter(rdb, cfg.CartKey)
	case config.SourceFile:
		cartRepo = storage.NewFileAdapter(cfg.CartFile)
	default:
		log.Fatalf("unknown cart storage %q", cfg.CartStorage)
	}

	recorder := notify.NewRecorder(notificationHistory)
	notifier := notify.Fanout{notify.NewLogNotifier(nil), recorder}

	// Initialize service
	cartStore, err := service.NewCartStore(ctx, catalog, stock, cartRepo, notifier)
	if err != nil {
		log.Fatalf("failed to load cart: %v", err)
	}
	log.Printf("loaded cart with %d items", len(cartStore.GetCart()))

	// Initialize gRPC server
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(fetchTimeout(cfg.FetchTimeout)),
	)
	handler.RegisterCartServiceServer(grpcServer, handler.NewGRPCHandler(cartStore))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(cartStore, recorder)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: http.TimeoutHandler(httpHandler.Routes(), cfg.FetchTimeout*2, "request timed out"),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	healthServer.Shutdown()

	// Stop HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Stop gRPC server
	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	// Close connections
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	log.Println("connections closed")
}

// fetchTimeout bounds every RPC, including the catalog and stock lookups it
// triggers, by d.
func fetchTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx, req)
	}
}
