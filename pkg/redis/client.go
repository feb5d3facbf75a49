package redis

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis connection with the flat hash/list operations
// the station's persistence layer needs: one dedicated connection per
// goroutine, no shared state (pkg/persistence.RedisStore is built on it).
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// New creates a new Redis client
func New(addr string, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &Client{
		client: client,
		ctx:    ctx,
	}, nil
}

// WriteString writes a string value to Redis
func (c *Client) WriteString(key, field, value string) error {
	return c.client.HSet(c.ctx, key, field, value).Err()
}

// WriteFields writes several hash fields in one round trip, used by
// RedisStore.DeviceCreate to set name+version together.
func (c *Client) WriteFields(key string, fields ...interface{}) error {
	return c.client.HSet(c.ctx, key, fields...).Err()
}

// GetAll reads every field of a hash key.
func (c *Client) GetAll(key string) (map[string]string, error) {
	return c.client.HGetAll(c.ctx, key).Result()
}

// Exists reports whether key is present, regardless of type.
func (c *Client) Exists(key string) (bool, error) {
	n, err := c.client.Exists(c.ctx, key).Result()
	return n > 0, err
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Del removes one or more keys outright, used to drop a device record and
// its child collections in a single round trip.
func (c *Client) Del(keys ...string) error {
	return c.client.Del(c.ctx, keys...).Err()
}

// LPushTrim pushes value onto key and trims the list to its first maxLen
// entries in a single pipeline, bounding unbounded telemetry history.
func (c *Client) LPushTrim(key, value string, maxLen int64) error {
	pipe := c.client.Pipeline()
	pipe.LPush(c.ctx, key, value)
	pipe.LTrim(c.ctx, key, 0, maxLen-1)
	_, err := pipe.Exec(c.ctx)
	if err != nil {
		log.Printf("Failed to LPUSH+LTRIM %s to key %s: %v", value, key, err)
	}
	return err
}
