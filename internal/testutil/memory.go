// Package testutil provides in-memory stores and recording fakes for service
// and handler tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// UserStore is an in-memory repository.UserRepository with a unique email index.
type UserStore struct {
	mu      sync.Mutex
	byID    map[string]entity.User
	byEmail map[string]string

	// Err, when set, is returned by every call.
	Err error
}

func NewUserStore() *UserStore {
	return &UserStore{byID: map[string]entity.User{}, byEmail: map[string]string{}}
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	id, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *UserStore) UpdateProfile(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.Bio, cur.AvatarURL = u.Name, u.Bio, u.AvatarURL
	cur.UpdatedAt = time.Now().UTC()
	u.UpdatedAt = cur.UpdatedAt
	s.byID[u.ID] = cur
	return nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// TaskStore is an in-memory repository.TaskRepository.
type TaskStore struct {
	mu    sync.Mutex
	tasks map[string]entity.Task
	seq   int64
	Lists int // number of ListByOwner calls
	Err   error
	// AfterList runs once ListByOwner has read its rows and released the lock.
	AfterList func()
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: map[string]entity.Task{}}
}

func (s *TaskStore) Create(_ context.Context, t *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.seq++
	// strictly increasing timestamps keep newest-first ordering deterministic
	now := time.Unix(1_700_000_000+s.seq, 0).UTC()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	s.tasks[t.ID] = *t
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id string) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *TaskStore) ListByOwner(_ context.Context, ownerID string, f entity.TaskFilter) ([]entity.Task, error) {
	out, err := s.listByOwner(ownerID, f)
	if err == nil && s.AfterList != nil {
		s.AfterList()
	}
	return out, err
}

func (s *TaskStore) listByOwner(ownerID string, f entity.TaskFilter) ([]entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lists++
	if s.Err != nil {
		return nil, s.Err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []entity.Task{}
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *TaskStore) Update(_ context.Context, t *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title, cur.Description, cur.DueDate, cur.Status = t.Title, t.Description, t.DueDate, t.Status
	cur.UpdatedAt = cur.UpdatedAt.Add(time.Second)
	t.UpdatedAt = cur.UpdatedAt
	s.tasks[t.ID] = cur
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Publisher records published messages.
type Publisher struct {
	mu   sync.Mutex
	Msgs []any
	Err  error
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Msgs = append(p.Msgs, body)
	return nil
}

// Uploader records uploaded objects and returns a fake public URL.
type Uploader struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func (u *Uploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Objects == nil {
		u.Objects = map[string][]byte{}
	}
	u.Objects[objectPath] = b
	return "https://storage.example.test/" + objectPath, nil
}

// ErrDown is a generic store failure.
var ErrDown = errors.New("store unavailable")
