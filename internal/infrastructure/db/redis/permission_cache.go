package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mitraportal/partner-system/internal/core/ports"
)

const permissionTTL = time.Hour

var _ ports.PermissionCache = (*PermissionCache)(nil)

// PermissionCache caches role permission sets in Redis so logins do not hit
// the three-table role join every time. A miss falls through to Postgres;
// the TTL bounds how long a role edit stays invisible.
// Key format: permissions:<role>
type PermissionCache struct {
	client *redis.Client
}

// NewPermissionCache creates a PermissionCache wrapping the given client.
func NewPermissionCache(client *redis.Client) *PermissionCache {
	return &PermissionCache{client: client}
}

// Get returns the cached permission set for role, or (nil, nil) on a miss.
func (c *PermissionCache) Get(ctx context.Context, role string) ([]string, error) {
	raw, err := c.client.Get(ctx, c.key(role)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("permission cache get: %w", err)
	}
	var permissions []string
	if err := json.Unmarshal([]byte(raw), &permissions); err != nil {
		return nil, nil
	}
	return permissions, nil
}

// Set stores the permission set for role (expires after permissionTTL).
func (c *PermissionCache) Set(ctx context.Context, role string, permissions []string) error {
	raw, err := json.Marshal(permissions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(role), raw, permissionTTL).Err()
}

func (c *PermissionCache) key(role string) string {
	return "permissions:" + role
}
