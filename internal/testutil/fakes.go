package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskCache is an in-memory task list cache keyed by a per-owner version,
// like the redis one.
type TaskCache struct {
	mu          sync.Mutex
	lists       map[string][]entity.Task
	versions    map[string]int64
	Hits        int
	Invalidated int
	Err         error
}

func NewTaskCache() *TaskCache {
	return &TaskCache{lists: map[string][]entity.Task{}, versions: map[string]int64{}}
}

func cacheKey(owner string, ver int64, f entity.TaskFilter) string {
	return owner + "|" + strconv.FormatInt(ver, 10) + "|" + string(f.Status) + "|" + strings.ToLower(f.Query)
}

func (c *TaskCache) GetList(_ context.Context, owner string, f entity.TaskFilter) ([]entity.Task, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, 0, c.Err
	}
	ver := c.versions[owner]
	l, ok := c.lists[cacheKey(owner, ver, f)]
	if ok {
		c.Hits++
	}
	return l, ver, nil
}

func (c *TaskCache) SetList(_ context.Context, owner string, f entity.TaskFilter, version int64, list []entity.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.lists[cacheKey(owner, version, f)] = list
	return nil
}

func (c *TaskCache) Invalidate(_ context.Context, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidated++
	if c.Err != nil {
		return c.Err
	}
	c.versions[owner]++
	return nil
}

// TaskIndex is an in-memory stand-in for the search index.
type TaskIndex struct {
	mu   sync.Mutex
	Docs map[string]entity.Task
	Err  error
}

func NewTaskIndex() *TaskIndex { return &TaskIndex{Docs: map[string]entity.Task{}} }

func (x *TaskIndex) Index(_ context.Context, t *entity.Task) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return x.Err
	}
	x.Docs[t.ID] = *t
	return nil
}

func (x *TaskIndex) Delete(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return x.Err
	}
	delete(x.Docs, id)
	return nil
}

func (x *TaskIndex) Search(_ context.Context, owner, q string, size int) ([]entity.Task, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return nil, x.Err
	}
	q = strings.ToLower(q)
	out := []entity.Task{}
	for _, t := range x.Docs {
		if t.OwnerID != owner {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
		if len(out) == size {
			break
		}
	}
	return out, nil
}
