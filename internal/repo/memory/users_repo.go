package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arjunkh87/bizdash/internal/domain/user"
)

// UsersRepo keeps user documents in a map. It backs local development
// and tests, the semantics mirror the document store: upsert merges,
// missing fields survive, updatedAt always moves forward.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Get(ctx context.Context, id string) (user.User, error) {
	if id == "" {
		return user.User{}, user.ErrMissingID
	}

	r.mu.RLock()
	u, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) Upsert(ctx context.Context, p user.Patch) (user.User, error) {
	if p.ID == "" {
		return user.User{}, user.ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	u, ok := r.items[p.ID]
	if !ok {
		u = user.User{ID: p.ID, CreatedAt: now}
	}

	p.Apply(&u)

	// the clock can stand still between two quick writes, the stamp
	// must not
	if !now.After(u.UpdatedAt) {
		now = u.UpdatedAt.Add(time.Nanosecond)
	}
	u.UpdatedAt = now

	r.items[p.ID] = u
	return u, nil
}
