package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/observability"
)

// CachingClient wraps a Client with a Redis-backed schema cache. Table
// schemas change rarely and dominate generation latency for large
// namespaces, so entries are reused until they expire. Cache failures
// degrade to direct lookups, never to generation failures.
type CachingClient struct {
	log       logrus.FieldLogger
	inner     Client
	redis     *redis.Client
	keyPrefix string
	ttl       time.Duration
}

var _ Client = (*CachingClient)(nil)

// NewCachingClient caches inner's schema lookups under keyPrefix.
func NewCachingClient(log logrus.FieldLogger, inner Client, redisClient *redis.Client, keyPrefix string, ttl time.Duration) *CachingClient {
	return &CachingClient{
		log:       log.WithField("component", "warehouse-cache"),
		inner:     inner,
		redis:     redisClient,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// TableSchema returns the cached schema for table, falling back to the
// wrapped client on a miss.
func (c *CachingClient) TableSchema(ctx context.Context, table string) ([]Column, error) {
	key := c.key(table)

	cached, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var columns []Column
		if err := json.Unmarshal(cached, &columns); err == nil {
			observability.RecordSchemaCacheHit()

			return columns, nil
		}

		c.log.WithField("key", key).Warn("Discarding unreadable cached schema")
	} else if !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Warn("Schema cache read failed")
	}

	observability.RecordSchemaCacheMiss()

	columns, err := c.inner.TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Schema cache write failed")
	}

	return columns, nil
}

func (c *CachingClient) Start() error {
	return c.inner.Start()
}

func (c *CachingClient) Stop() error {
	return c.inner.Stop()
}

func (c *CachingClient) key(table string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, table)
}
