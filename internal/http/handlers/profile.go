package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/config"
	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/http/middlewares"
)

// Keep this small interface so tests can fake it easily.
type UserStore interface {
	Get(ctx context.Context, id string) (user.User, error)
	Upsert(ctx context.Context, p user.Patch) (user.User, error)
}

type ProfileHandler struct {
	store UserStore
}

func NewProfileHandler(store UserStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

func (h *ProfileHandler) GetProfile(ctx *gin.Context) {
	uid, ok := middlewares.UIDFromContext(ctx)
	if !ok || uid == "" {
		RespondUnauthorized(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.store.Get(cctx, uid)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "Profile not found")
			return
		}
		RespondInternal(ctx, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// UpdateProfile merge-writes the fields the client sent. Omitted
// fields keep their stored values, that is the whole contract.
func (h *ProfileHandler) UpdateProfile(ctx *gin.Context) {
	uid, ok := middlewares.UIDFromContext(ctx)
	if !ok || uid == "" {
		RespondUnauthorized(ctx)
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	patch := req.ToPatch(uid)

	if err := patch.Validate(); err != nil {
		if errors.Is(err, user.ErrUnknownCategory) {
			RespondBadRequest(ctx, "Unknown business category", gin.H{
				"field": "categoryId",
			})
			return
		}
		RespondBadRequest(ctx, "Invalid profile update", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.store.Upsert(cctx, patch)
	if err != nil {
		RespondInternal(ctx, "Could not save profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
