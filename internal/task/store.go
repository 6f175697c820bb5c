package task

import (
	"fmt"
	"sync"

	"github.com/taskpilot/taskpilot/pkg/cerr"
)

// Store holds each user's ordered task list. Indexes are 1-based and follow
// insertion order, which is also display order.
type Store interface {
	Add(userID int64, t *Task)
	List(userID int64) []*Task
	Get(userID int64, index int) (*Task, error)
	MarkCompleted(userID int64, index int) (*Task, error)
}

// MemoryStore is a mutex-guarded in-memory Store. State is process-lifetime
// only; there is no eviction and no persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[int64][]*Task
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[int64][]*Task),
	}
}

func (s *MemoryStore) Add(userID int64, t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[userID] = append(s.tasks[userID], t)
}

// List returns the user's tasks in display order. A user with no tasks gets
// an empty slice; callers may append to the result without corrupting the
// store's ordering.
func (s *MemoryStore) List(userID int64) []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := s.tasks[userID]
	out := make([]*Task, len(tasks))
	copy(out, tasks)
	return out
}

func (s *MemoryStore) Get(userID int64, index int) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(userID, index)
}

// get requires the caller to hold s.mu.
func (s *MemoryStore) get(userID int64, index int) (*Task, error) {
	tasks := s.tasks[userID]
	if index < 1 || index > len(tasks) {
		return nil, cerr.NewError(cerr.NotFound,
			fmt.Sprintf("task %d not found", index), nil)
	}
	return tasks[index-1], nil
}

// MarkCompleted resolves the task at the 1-based index and sets it completed.
// Repeating the call is harmless. Invalid indexes fail with the same
// NotFound error as Get.
func (s *MemoryStore) MarkCompleted(userID int64, index int) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(userID, index)
	if err != nil {
		return nil, err
	}
	t.MarkCompleted()
	return t, nil
}
