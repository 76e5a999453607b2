package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/arjunkh87/bizdash/internal/cache"
)

// CachedVerifier memoizes successful verifications so a page load with
// five authenticated fetches costs one provider round trip, not five.
// Entries never outlive the cookie they were verified from.
type CachedVerifier struct {
	inner Verifier
	memo  *cache.Cache
}

func NewCachedVerifier(inner Verifier, ttl time.Duration) *CachedVerifier {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedVerifier{
		inner: inner,
		memo:  cache.New(ttl),
	}
}

func (v *CachedVerifier) Verify(ctx context.Context, cookie string) (Identity, error) {
	key := memoKey(cookie)

	if hit, ok := v.memo.Get(key); ok {
		return hit.(Identity), nil
	}

	id, err := v.inner.Verify(ctx, cookie)
	if err != nil {
		// failures are never cached, a retry may hit a recovered provider
		return Identity{}, err
	}

	v.memo.SetUntil(key, id, id.ExpiresAt)
	return id, nil
}

// Forget drops a memoized cookie, used on logout so a revoked session
// does not linger for the memo ttl.
func (v *CachedVerifier) Forget(cookie string) {
	v.memo.Delete(memoKey(cookie))
}

// raw cookies are bearer credentials, only their digest is usable as a
// map key
func memoKey(cookie string) string {
	sum := sha256.Sum256([]byte(cookie))
	return hex.EncodeToString(sum[:])
}
