package observability

import (
	"context"
	"errors"
	"time"

	"github.com/arjunkh87/bizdash/internal/session"
)

// MeasuredVerifier decorates a session verifier with prometheus
// counters, one label per outcome so a provider outage is visible on a
// dashboard before users start filing tickets.
type MeasuredVerifier struct {
	inner session.Verifier
	prom  *Prom
}

func NewMeasuredVerifier(inner session.Verifier, prom *Prom) *MeasuredVerifier {
	return &MeasuredVerifier{inner: inner, prom: prom}
}

func (v *MeasuredVerifier) Verify(ctx context.Context, cookie string) (session.Identity, error) {
	start := time.Now()
	id, err := v.inner.Verify(ctx, cookie)
	result := classifyVerify(err)

	v.prom.SessionVerifyTotal.WithLabelValues(result).Inc()
	v.prom.SessionVerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	return id, err
}

func classifyVerify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, session.ErrNoSession):
		return "no_session"
	case errors.Is(err, session.ErrInvalidSession):
		return "invalid"
	case errors.Is(err, session.ErrProviderDown):
		return "provider_down"
	default:
		return "error"
	}
}
