package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = fmt.Errorf("%w: circuit breaker open", ErrProviderDown)

type GuardedVerifierConfig struct {
	Timeout          time.Duration // hard timeout per verify
	FailureThreshold int           // consecutive provider failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // allow N trial calls in half-open
}

// GuardedVerifier fails fast when the identity provider keeps timing
// out, so the dashboard serves a clean 502 instead of piling up
// requests behind a dead upstream.
type GuardedVerifier struct {
	inner Verifier
	cfg   GuardedVerifierConfig
	mu    sync.Mutex

	state string // "closed" | "open" | "half_open"

	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewGuardedVerifier(inner Verifier, cfg GuardedVerifierConfig) *GuardedVerifier {
	//defaults
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &GuardedVerifier{
		inner: inner,
		cfg:   cfg,
		state: "closed",
	}
}

func (g *GuardedVerifier) Verify(ctx context.Context, cookie string) (Identity, error) {
	// fail-fast gate
	if !g.allowRequest() {
		return Identity{}, ErrCircuitOpen
	}

	// enforce timeout
	verifyCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	id, err := g.inner.Verify(verifyCtx, cookie)

	g.afterRequest(err)

	return id, err
}

func (g *GuardedVerifier) allowRequest() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case "closed":
		return true
	case "open":
		// cooldown has passed? move to half open
		if time.Since(g.openedAt) >= g.cfg.Cooldown {
			g.state = "half_open"
			g.halfOpenInFlight = 0
			return true
		}
		return false
	case "half_open":
		if g.halfOpenInFlight >= g.cfg.HalfOpenMaxCalls {
			return false
		}
		g.halfOpenInFlight++
		return true
	default:
		// safe fallback
		return true
	}
}

func (g *GuardedVerifier) afterRequest(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// half-open call just finished
	if g.state == "half_open" && g.halfOpenInFlight > 0 {
		g.halfOpenInFlight--
	}

	// an invalid or missing cookie is a normal answer from a healthy
	// provider, only provider failures move the breaker
	if !isProviderFailure(err) {
		g.consecutiveFailures = 0
		g.state = "closed"
		return
	}

	g.consecutiveFailures++

	// if half-open failed, reopen immediately
	if g.state == "half_open" {
		g.state = "open"
		g.openedAt = time.Now()
		return
	}

	// if failures reached threshold, open circuit
	if g.consecutiveFailures >= g.cfg.FailureThreshold {
		g.state = "open"
		g.openedAt = time.Now()
	}
}

func isProviderFailure(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrProviderDown) ||
		errors.Is(err, context.DeadlineExceeded)
}
