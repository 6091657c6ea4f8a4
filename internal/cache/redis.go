package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/redis/go-redis/v9"
)

const postKeyPrefix = "fatherhoodis:post:"

// RedisPostCache keeps single post responses in Redis as JSON.
type RedisPostCache struct {
	client redis.Cmdable
}

// NewRedis connects to redisURL and verifies the connection with a ping.
func NewRedis(ctx context.Context, redisURL string) (*RedisPostCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisPostCache{client: client}, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.Cmdable) *RedisPostCache {
	return &RedisPostCache{client: client}
}

func postKey(id string) string {
	return postKeyPrefix + id
}

func (r *RedisPostCache) GetPost(ctx context.Context, id string) (apiclient.Post, bool) {
	raw, err := r.client.Get(ctx, postKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] get post %s: %v", id, err)
		}
		return apiclient.Post{}, false
	}
	var post apiclient.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		log.Printf("[cache] decode post %s: %v", id, err)
		return apiclient.Post{}, false
	}
	return post, true
}

func (r *RedisPostCache) SetPost(ctx context.Context, post apiclient.Post, ttl time.Duration) {
	data, err := json.Marshal(post)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, postKey(post.ID), data, ttl).Err(); err != nil {
		log.Printf("[cache] set post %s: %v", post.ID, err)
	}
}

// Close releases the underlying connection pool when it owns one.
func (r *RedisPostCache) Close() error {
	if closer, ok := r.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
