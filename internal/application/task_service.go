package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/policy"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// TaskCache is a per-owner list cache; implemented by cache.TaskCache.
type TaskCache interface {
	GetList(ctx context.Context, ownerID string, f entity.TaskFilter) ([]entity.Task, int64, error)
	SetList(ctx context.Context, ownerID string, f entity.TaskFilter, version int64, list []entity.Task) error
	Invalidate(ctx context.Context, ownerID string) error
}

// TaskIndex is a full-text index over tasks; implemented by search.TaskIndex.
type TaskIndex interface {
	Index(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, ownerID, q string, size int) ([]entity.Task, error)
}

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// TaskService implements task CRUD for the authenticated caller. Every
// operation on an existing task resolves it first and then applies the
// ownership policy.
type TaskService struct {
	Tasks  repo.TaskRepository
	Cache  TaskCache
	Index  TaskIndex
	Logger *logrus.Logger

	sf singleflight.Group
}

func NewTaskService(tasks repo.TaskRepository, cache TaskCache, index TaskIndex, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Cache: cache, Index: index, Logger: logger}
}

type ListTasksInput struct {
	Query  string `json:"q"`
	Status string `json:"status" validate:"omitempty,taskstatus"`
}

type CreateTaskInput struct {
	Title       string     `json:"title" validate:"required,tasktitle"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Status      string     `json:"status" validate:"omitempty,taskstatus"`
}

// UpdateTaskInput carries only the fields present in the request. ClearDueDate
// removes the due date; it wins over DueDate.
type UpdateTaskInput struct {
	Title        *string    `json:"title" validate:"omitempty,tasktitle"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"-"`
	Status       *string    `json:"status" validate:"omitempty,taskstatus"`
}

func taskOwner(t *entity.Task) string { return t.OwnerID }

// List returns the caller's tasks, newest first.
func (s *TaskService) List(ctx context.Context, callerID string, in ListTasksInput) ([]entity.Task, error) {
	in.Query = strings.TrimSpace(in.Query)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	f := entity.TaskFilter{Query: in.Query, Status: entity.TaskStatus(in.Status)}

	// the version is read before the store so a concurrent write orphans what we fill
	var (
		version int64
		fill    bool
	)
	if s.Cache != nil {
		list, ver, err := s.Cache.GetList(ctx, callerID, f)
		switch {
		case err != nil:
			helpers.LogWarn(s.Logger, "task cache read failed", err, logrus.Fields{"owner": callerID})
		case list != nil:
			return list, nil
		default:
			version, fill = ver, true
		}
	}

	key := callerID + "|" + strconv.FormatInt(version, 10) + "|" + string(f.Status) + "|" + strings.ToLower(f.Query)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		list, err := s.Tasks.ListByOwner(ctx, callerID, f)
		if err != nil {
			return nil, err
		}
		if fill {
			if err := s.Cache.SetList(ctx, callerID, f, version, list); err != nil {
				helpers.LogWarn(s.Logger, "task cache write failed", err, logrus.Fields{"owner": callerID})
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.Task), nil
}

func (s *TaskService) Get(ctx context.Context, callerID, id string) (*entity.Task, error) {
	return s.authorized(ctx, callerID, id)
}

// Create stores a new task owned by callerID. Status defaults to todo.
func (s *TaskService) Create(ctx context.Context, callerID string, in CreateTaskInput) (*entity.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     utcPtr(in.DueDate),
		Status:      entity.StatusTodo,
		OwnerID:     callerID,
	}
	if in.Status != "" {
		t.Status = entity.TaskStatus(in.Status)
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	tasksCreated.Add(1)
	s.afterWrite(ctx, t, false)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, callerID, id string, in UpdateTaskInput) (*entity.Task, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	t, err := s.authorized(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	switch {
	case in.ClearDueDate:
		t.DueDate = nil
	case in.DueDate != nil:
		t.DueDate = utcPtr(in.DueDate)
	}
	if in.Status != nil {
		t.Status = entity.TaskStatus(*in.Status)
	}

	if err := s.Tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, err
	}
	s.afterWrite(ctx, t, false)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, callerID, id string) error {
	t, err := s.authorized(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := s.Tasks.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return policy.ErrNotFound
		}
		return err
	}
	tasksDeleted.Add(1)
	s.afterWrite(ctx, t, true)
	return nil
}

// Search runs a full-text query over the caller's tasks. Without an index it
// finds nothing.
func (s *TaskService) Search(ctx context.Context, callerID, q string, size int) ([]entity.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validation.NewError("q", "is required")
	}
	if s.Index == nil {
		return []entity.Task{}, nil
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	return s.Index.Search(ctx, callerID, q, size)
}

// authorized resolves id and applies the ownership policy to it.
func (s *TaskService) authorized(ctx context.Context, callerID, id string) (*entity.Task, error) {
	t, err := s.Tasks.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		t, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(t, callerID, taskOwner); err != nil {
		return nil, err
	}
	return t, nil
}

// afterWrite drops the owner's cached lists and syncs the search index.
// Failures are logged; the store is the source of truth.
func (s *TaskService) afterWrite(ctx context.Context, t *entity.Task, deleted bool) {
	fields := logrus.Fields{"owner": t.OwnerID, "task_id": t.ID}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, t.OwnerID); err != nil {
			helpers.LogWarn(s.Logger, "task cache invalidate failed", err, fields)
		}
	}
	if s.Index == nil {
		return
	}
	var err error
	if deleted {
		err = s.Index.Delete(ctx, t.ID)
	} else {
		err = s.Index.Index(ctx, t)
	}
	if err != nil {
		helpers.LogWarn(s.Logger, "task index sync failed", err, fields)
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
