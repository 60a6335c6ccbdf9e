package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

func TestListKey(t *testing.T) {
	base := listKey("u1", 3, entity.TaskFilter{Query: "  Milk ", Status: entity.StatusDone})
	assert.Equal(t, "tasks:list:u1:v3:done:milk", base)

	assert.Equal(t, base, listKey("u1", 3, entity.TaskFilter{Query: "MILK", Status: entity.StatusDone}),
		"query is case-insensitive")
	assert.NotEqual(t, base, listKey("u1", 4, entity.TaskFilter{Query: "milk", Status: entity.StatusDone}),
		"a version bump changes the key")
	assert.NotEqual(t, base, listKey("u2", 3, entity.TaskFilter{Query: "milk", Status: entity.StatusDone}),
		"owners never share keys")
}

func newTestCache(t *testing.T) (*TaskCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTaskCache(rdb, time.Minute), mr
}

func sampleTasks(owner string) []entity.Task {
	return []entity.Task{{ID: "t1", OwnerID: owner, Title: "Buy milk", Status: entity.StatusTodo}}
}

func TestTaskCache_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	f := entity.TaskFilter{Status: entity.StatusTodo}

	list, ver, err := c.GetList(ctx, "u1", f)
	require.NoError(t, err)
	assert.Nil(t, list)
	assert.Equal(t, int64(0), ver)

	require.NoError(t, c.SetList(ctx, "u1", f, ver, sampleTasks("u1")))
	assert.True(t, mr.Exists(listKey("u1", 0, f)))
	assert.Equal(t, time.Minute, mr.TTL(listKey("u1", 0, f)))

	list, _, err = c.GetList(ctx, "u1", f)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy milk", list[0].Title)

	other, _, err := c.GetList(ctx, "u2", f)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestTaskCache_EmptyListIsAHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "u1", entity.TaskFilter{}, 0, []entity.Task{}))
	list, _, err := c.GetList(ctx, "u1", entity.TaskFilter{})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTaskCache_InvalidateOrphansLists(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	all := entity.TaskFilter{}
	done := entity.TaskFilter{Status: entity.StatusDone}

	require.NoError(t, c.SetList(ctx, "u1", all, 0, sampleTasks("u1")))
	require.NoError(t, c.SetList(ctx, "u1", done, 0, []entity.Task{}))
	require.NoError(t, c.SetList(ctx, "u2", all, 0, sampleTasks("u2")))

	require.NoError(t, c.Invalidate(ctx, "u1"))
	v, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	for _, f := range []entity.TaskFilter{all, done} {
		list, ver, err := c.GetList(ctx, "u1", f)
		require.NoError(t, err)
		assert.Nil(t, list)
		assert.Equal(t, int64(1), ver)
	}

	list, _, err := c.GetList(ctx, "u2", all)
	require.NoError(t, err)
	assert.Len(t, list, 1, "other owners keep their lists")
}

func TestTaskCache_FillAfterConcurrentWriteStaysOrphaned(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	f := entity.TaskFilter{}

	// reader misses and records the version before querying the store
	_, ver, err := c.GetList(ctx, "u1", f)
	require.NoError(t, err)

	// a write commits and invalidates before the reader fills
	require.NoError(t, c.Invalidate(ctx, "u1"))
	require.NoError(t, c.SetList(ctx, "u1", f, ver, sampleTasks("u1")))

	list, cur, err := c.GetList(ctx, "u1", f)
	require.NoError(t, err)
	assert.Nil(t, list, "stale fill must not be served")
	assert.Equal(t, ver+1, cur)
}

func TestTaskCache_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.GetList(context.Background(), "u1", entity.TaskFilter{})
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background(), "u1"))
}
