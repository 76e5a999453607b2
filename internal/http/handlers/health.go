package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadyCheck is one dependency probe, run on /readyz only. Liveness
// stays dependency-free so a flaky backend cannot get the pod killed.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []ReadyCheck
}

func NewHealthHandler(checks ...ReadyCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	for _, c := range h.checks {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), 1*time.Second)
		err := c.Check(cctx)
		cancel()

		if err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"failed": c.Name,
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
