package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/taskmanager/task-tracker/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	saved := cloneUser(user)
	if saved.ID == 0 {
		if _, exists := r.users[saved.Username]; exists {
			return nil, domain.ErrDuplicateUsername
		}
		r.nextID++
		saved.ID = r.nextID
	}
	r.users[saved.Username] = cloneUser(saved)
	return saved, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

type stubTaskRepo struct {
	tasks   map[int64]*domain.Task
	nextID  int64
	saveErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[int64]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindByOwner(_ context.Context, owner string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.Owner == owner {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) FindAllOrderByCreatedDesc(_ context.Context) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *stubTaskRepo) CountByOwner(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, t := range r.tasks {
		counts[t.Owner]++
	}
	return counts, nil
}

func (r *stubTaskRepo) Save(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	saved := cloneTask(task)
	if saved.ID == 0 {
		r.nextID++
		saved.ID = r.nextID
	}
	r.tasks[saved.ID] = cloneTask(saved)
	return saved, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, task *domain.Task) error {
	delete(r.tasks, task.ID)
	return nil
}

// seedTask stores a task directly, bypassing the service.
func (r *stubTaskRepo) seedTask(id int64, owner string, mutate func(*domain.Task)) *domain.Task {
	t := &domain.Task{
		ID:        id,
		Title:     "seeded",
		Priority:  domain.PriorityMedium,
		Owner:     owner,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(t)
	}
	r.tasks[id] = cloneTask(t)
	if id > r.nextID {
		r.nextID = id
	}
	return t
}

type stubIdempotency struct {
	keys      map[string]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, owner, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[owner+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, owner, key string, taskID int64) error {
	s.keys[owner+":"+key] = taskID
	return nil
}

type stubPublisher struct {
	mu        sync.Mutex
	published []domain.TaskActivity
}

func (p *stubPublisher) Publish(a domain.TaskActivity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, a)
}

// plainHasher keeps tests fast; the bcrypt implementation is tested in security.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (plainHasher) Verify(plaintext, digest string) bool { return digest == "hashed:"+plaintext }

type stubActivityRepo struct {
	insertErr error
	inserted  []*domain.TaskActivity
}

func (r *stubActivityRepo) InsertActivity(_ context.Context, a *domain.TaskActivity) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, a)
	return nil
}

var errStore = errors.New("store unavailable")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
