package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the redis connection behind the profile cache.
type Client struct {
	redisdb *redis.Client
}

func New(addr, password string, db int) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		// profile documents are tiny, quick timeouts beat queueing
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
	})

	return &Client{redisdb: redisdb}
}

// this ping function checks redis connectivity

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

// this closes the client

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// this exposes the underlying client for the document cache

func (c *Client) Raw() *redis.Client {
	return c.redisdb
}
