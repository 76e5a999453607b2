package cached

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/observability"
)

// Store is what we sit in front of.
type Store interface {
	Get(ctx context.Context, id string) (user.User, error)
	Upsert(ctx context.Context, p user.Patch) (user.User, error)
}

// UsersRepo is a redis read-through in front of the document store.
// The cache is strictly best effort: a dead redis degrades to direct
// reads, it never fails a request.
type UsersRepo struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
	prom  *observability.Prom
}

func NewUsersRepo(inner Store, rdb *redis.Client, ttl time.Duration, prom *observability.Prom) *UsersRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UsersRepo{inner: inner, rdb: rdb, ttl: ttl, prom: prom}
}

func (r *UsersRepo) count(outcome string) {
	if r.prom != nil {
		r.prom.CacheOpsTotal.WithLabelValues(outcome).Inc()
	}
}

// version the key so a schema change ships with a prefix bump instead
// of a flush
func userKey(id string) string {
	return "users:doc:v1:" + id
}

func (r *UsersRepo) Get(ctx context.Context, id string) (user.User, error) {
	raw, err := r.rdb.Get(ctx, userKey(id)).Bytes()
	switch {
	case err == nil:
		var u user.User
		if jsonErr := json.Unmarshal(raw, &u); jsonErr == nil {
			r.count("hit")
			return u, nil
		}
		// undecodable entry, drop it and fall through
		r.count("error")
		r.rdb.Del(ctx, userKey(id))

	case errors.Is(err, redis.Nil):
		r.count("miss")

	default:
		// dead redis counts as an error but never fails the request
		r.count("error")
	}

	u, err := r.inner.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	r.fill(ctx, u)
	return u, nil
}

func (r *UsersRepo) Upsert(ctx context.Context, p user.Patch) (user.User, error) {
	u, err := r.inner.Upsert(ctx, p)
	if err != nil {
		return user.User{}, err
	}

	// write through so the next page load sees the merge immediately
	r.fill(ctx, u)
	return u, nil
}

func (r *UsersRepo) fill(ctx context.Context, u user.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	r.rdb.Set(ctx, userKey(u.ID), raw, r.ttl)
}
