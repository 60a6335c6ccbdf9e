package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// TaskCache caches per-owner task lists in Redis. Each owner has a version
// counter that is part of every list key; bumping it orphans all cached lists
// of that owner, which then expire on their TTL.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func versionKey(ownerID string) string { return "tasks:ver:" + ownerID }

func listKey(ownerID string, version int64, f entity.TaskFilter) string {
	return "tasks:list:" + ownerID + ":v" + strconv.FormatInt(version, 10) +
		":" + string(f.Status) + ":" + normalizeQuery(f.Query)
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}

// GetList returns the cached list, or nil on a miss, together with the
// owner's current version. A caller that fills a miss must pass that version
// to SetList so a write landing in between orphans the filled entry.
func (c *TaskCache) GetList(ctx context.Context, ownerID string, f entity.TaskFilter) ([]entity.Task, int64, error) {
	ver, err := helpers.RedisGetInt64(ctx, c.rdb, versionKey(ownerID))
	if err != nil {
		return nil, 0, err
	}
	var list []entity.Task
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, listKey(ownerID, ver, f), &list)
	if err != nil || !ok {
		return nil, ver, err
	}
	if list == nil {
		list = []entity.Task{}
	}
	return list, ver, nil
}

// SetList stores list under version, as read by GetList before the store query.
func (c *TaskCache) SetList(ctx context.Context, ownerID string, f entity.TaskFilter, version int64, list []entity.Task) error {
	return helpers.RedisSetJSON(ctx, c.rdb, listKey(ownerID, version, f), list, c.ttl)
}

// Invalidate drops every cached list of ownerID.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.rdb.Incr(ctx, versionKey(ownerID)).Err()
}
