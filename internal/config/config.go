package config

import (
	"os"
	"strconv"
	"time"
)

const (
	SourceMySQL = "mysql"
	SourceRedis = "redis"
	SourceAPI   = "api"
	SourceFile  = "file"
)

// Config holds the process settings read from the environment.
type Config struct {
	HTTPAddr string
	GRPCAddr string

	MySQLDSN  string
	RedisAddr string

	// CartStorage selects where the cart is saved: "redis" or "file".
	CartStorage string
	CartKey     string
	CartFile    string

	// CatalogSource is "mysql" or "api"; StockSource is "mysql", "redis" or "api".
	CatalogSource string
	StockSource   string
	CatalogAPIURL string

	FetchTimeout time.Duration

	// OTLPEndpoint enables tracing when set.
	OTLPEndpoint string
}

func Load() *Config {
	return &Config{
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		GRPCAddr:      getenvDefault("GRPC_ADDR", ":50051"),
		MySQLDSN:      getenvDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/shoecart?parseTime=true"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		CartStorage:   getenvDefault("CART_STORAGE", SourceRedis),
		CartKey:       getenvDefault("CART_KEY", "@RocketShoes:cart"),
		CartFile:      getenvDefault("CART_FILE", "data/cart.json"),
		CatalogSource: getenvDefault("CATALOG_SOURCE", SourceMySQL),
		StockSource:   getenvDefault("STOCK_SOURCE", SourceRedis),
		CatalogAPIURL: getenvDefault("CATALOG_API_URL", "http://localhost:3333"),
		FetchTimeout:  getenvDuration("FETCH_TIMEOUT", 5*time.Second),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// NeedsMySQL reports whether any configured source reads from MySQL.
func (c *Config) NeedsMySQL() bool {
	return c.CatalogSource == SourceMySQL || c.StockSource == SourceMySQL
}

// NeedsRedis reports whether any configured source or the cart storage uses Redis.
func (c *Config) NeedsRedis() bool {
	return c.CartStorage == SourceRedis || c.StockSource == SourceRedis
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
