package observability

import (
	"errors"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/arjunkh87/bizdash/internal/domain/user"
)

func (p *Prom) ObserveStore(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	st := "ok"

	if err != nil {
		st = "error"
		p.StoreErrsTotal.WithLabelValues(op, classifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, st).Observe(time.Since(start).Seconds())
	return err
}

func classifyStoreErr(err error) string {
	if errors.Is(err, user.ErrNotFound) {
		return "not_found"
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.NotFound:
			return "not_found"
		case codes.Unavailable:
			return "unavailable"
		case codes.DeadlineExceeded:
			return "timeout"
		case codes.ResourceExhausted:
			return "throttled"
		case codes.PermissionDenied, codes.Unauthenticated:
			return "denied"
		case codes.Aborted:
			return "aborted"
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
