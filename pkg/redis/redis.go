// pkg/redis/redis.go
package redis

import (
	"context"
	"fmt"
	"time"

	"offeralert_backend/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps the redis client used for live-sync fan-out.
type Client struct {
	Client *redis.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Client{Client: rdb}
}

// Ping tests the connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// GetClient returns the underlying *redis.Client.
func (c *Client) GetClient() *redis.Client {
	return c.Client
}
