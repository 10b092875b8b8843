package envcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// ValkeyCache stores live readings in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "aerosense"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (environment.LiveConditions, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return environment.LiveConditions{}, false, nil
		}
		return environment.LiveConditions{}, false, err
	}
	var conditions environment.LiveConditions
	if err := json.Unmarshal([]byte(payload), &conditions); err != nil {
		return environment.LiveConditions{}, false, err
	}
	return conditions, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, value environment.LiveConditions, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return fmt.Sprintf("%s:live:%s", c.prefix, key)
}

var _ environment.LiveCache = (*ValkeyCache)(nil)
