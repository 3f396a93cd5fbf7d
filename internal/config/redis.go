package config

// Redis backs the treatments response cache. A failed ping at startup
// returns a nil client and callers run without the cache.

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment:
//
//	REDIS_ADDR      host:port shorthand (default localhost:6379)
//	REDIS_HOST/PORT override REDIS_ADDR when both are set
//	REDIS_PASSWORD  optional password
//	REDIS_DB        database number (default 0)
//	REDIS_TLS       "true" or "1" enables TLS
func RedisOptions() *redis.Options {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	}
}

// NewRedisClient connects with RedisOptions and pings the server.
// It returns nil if the server cannot be reached.
func NewRedisClient() *redis.Client {
	opts := RedisOptions()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s, response cache disabled: %v", opts.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
