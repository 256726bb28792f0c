package profilecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bazi/internal/domain/bazi"
)

// ValkeyCache persists computed profiles in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "bazi"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (bazi.Profile, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return bazi.Profile{}, false, nil
		}
		return bazi.Profile{}, false, err
	}
	var profile bazi.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return bazi.Profile{}, false, err
	}
	return profile, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, profile bazi.Profile, ttl time.Duration) error {
	payload, err := json.Marshal(profile)
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
	return c.prefix + ":" + key
}

var _ bazi.ProfileCache = (*ValkeyCache)(nil)
