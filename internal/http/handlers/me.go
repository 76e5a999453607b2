package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/http/middlewares"
)

// the response shape is a frontend contract, field order included
type meResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// Me is the canonical "am I logged in" probe the frontend fires on
// boot. The guard has already done the work, this just echoes it.
func (h *MeHandler) Me(ctx *gin.Context) {
	uid, ok := middlewares.UIDFromContext(ctx)
	if !ok || uid == "" {
		// only reachable if the route was wired without the guard
		RespondUnauthorized(ctx)
		return
	}

	ctx.JSON(http.StatusOK, meResponse{
		Message: "Authenticated!",
		UserID:  uid,
	})
}
