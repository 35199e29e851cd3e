package database

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/jonboulle/clockwork"
)

// memoryStore keeps tasks in process memory. The outer lock guards only the user map;
// every user bucket has its own lock so users never wait on each other.
type memoryStore struct {
	mu     sync.RWMutex
	users  map[int64]*userBucket
	clock  clockwork.Clock
	logger *slog.Logger
}

type userBucket struct {
	mu      sync.Mutex
	lastSeq int64
	order   []string
	tasks   map[string]*Task
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore(clock clockwork.Clock, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &memoryStore{
		users:  make(map[int64]*userBucket),
		clock:  clock,
		logger: logger.With("component", "store", "driver", "memory"),
	}
}

// bucket returns the bucket of userID, creating it when create is set.
func (s *memoryStore) bucket(userID int64, create bool) *userBucket {
	s.mu.RLock()
	b := s.users[userID]
	s.mu.RUnlock()
	if b != nil || !create {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b = s.users[userID]; b == nil {
		b = &userBucket{tasks: make(map[string]*Task)}
		s.users[userID] = b
	}
	return b
}

// withTask runs fn on the stored task under the user's lock. It returns a copy of
// the task after fn, or nil when the task does not exist.
func (s *memoryStore) withTask(userID int64, taskID string, fn func(*Task)) *Task {
	b := s.bucket(userID, false)
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		return nil
	}
	if fn != nil {
		fn(t)
	}
	return t.clone()
}

func (s *memoryStore) CreateTask(ctx context.Context, userID int64, name, value string) (*Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := checkDeadline(value); err != nil {
		return nil, err
	}

	b := s.bucket(userID, true)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastSeq++
	t := &Task{
		ID:        strconv.FormatInt(b.lastSeq, 10),
		UserID:    userID,
		Name:      name,
		Deadline:  value,
		CreatedAt: s.clock.Now(),
	}
	b.tasks[t.ID] = t
	b.order = append(b.order, t.ID)

	s.logger.DebugContext(ctx, "Task created", "user_id", userID, "task_id", t.ID)
	return t.clone(), nil
}

func (s *memoryStore) GetTask(_ context.Context, userID int64, taskID string) (*Task, error) {
	return s.withTask(userID, taskID, nil), nil
}

func (s *memoryStore) ListTasks(_ context.Context, userID int64) ([]*Task, error) {
	b := s.bucket(userID, false)
	if b == nil {
		return []*Task{}, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Task, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.tasks[id].clone())
	}
	return out, nil
}

func (s *memoryStore) ListUsers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	buckets := make(map[int64]*userBucket, len(s.users))
	for id, b := range s.users {
		buckets[id] = b
	}
	s.mu.RUnlock()

	users := make([]int64, 0, len(buckets))
	for id, b := range buckets {
		b.mu.Lock()
		n := len(b.order)
		b.mu.Unlock()
		if n > 0 {
			users = append(users, id)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users, nil
}

func (s *memoryStore) ToggleCompleted(_ context.Context, userID int64, taskID string) (*Task, error) {
	return s.withTask(userID, taskID, func(t *Task) {
		t.Completed = !t.Completed
	}), nil
}

func (s *memoryStore) RenameTask(_ context.Context, userID int64, taskID, name string) (*Task, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.withTask(userID, taskID, func(t *Task) {
		t.Name = name
	}), nil
}

func (s *memoryStore) SetDeadline(_ context.Context, userID int64, taskID, value string) (*Task, error) {
	if err := checkDeadline(value); err != nil {
		return nil, err
	}
	return s.withTask(userID, taskID, func(t *Task) {
		t.Deadline = value
	}), nil
}

func (s *memoryStore) DeleteTask(ctx context.Context, userID int64, taskID string) (*Task, error) {
	b := s.bucket(userID, false)
	if b == nil {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		return nil, nil
	}
	delete(b.tasks, taskID)
	for i, id := range b.order {
		if id == taskID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	s.logger.DebugContext(ctx, "Task deleted", "user_id", userID, "task_id", taskID)
	return t.clone(), nil
}

func (s *memoryStore) RecordFiring(_ context.Context, userID int64, taskID string, f Firing) (bool, error) {
	recorded := false
	s.withTask(userID, taskID, func(t *Task) {
		if t.HasFired(f.Kind, f.Window) {
			return
		}
		t.Firings = append(t.Firings, f)
		recorded = true
	})
	return recorded, nil
}

func (s *memoryStore) Close() error {
	return nil
}
