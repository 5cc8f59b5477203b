package cache

import (
	"context"
	"encoding/json"
	"time"

	"roamly/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const (
	defaultListKey = "recommendations:default"

	// Short TTL: the default list only shifts when aggregates move, and it
	// is invalidated on every rating write anyway.
	DefaultListTTL = 5 * time.Minute
)

// RecommendationCache is a cache-aside store for the non-personalized
// default recommendation list. All methods are best-effort: a cache failure
// is reported but must never break the fallback path.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &RecommendationCache{client: client, ttl: ttl}
}

// GetDefaultList returns the cached list, or (nil, false) on miss or error.
func (c *RecommendationCache) GetDefaultList(ctx context.Context) ([]models.Movie, bool) {
	data, err := c.client.Get(ctx, defaultListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var movies []models.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, false
	}
	return movies, true
}

func (c *RecommendationCache) SetDefaultList(ctx context.Context, movies []models.Movie) {
	data, err := json.Marshal(movies)
	if err != nil {
		return
	}
	c.client.Set(ctx, defaultListKey, data, c.ttl)
}

// InvalidateDefaultList drops the cached list after a rating write moved
// some movie's aggregate.
func (c *RecommendationCache) InvalidateDefaultList(ctx context.Context) {
	c.client.Del(ctx, defaultListKey)
}
