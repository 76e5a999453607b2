package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error bodies are flat on purpose: {"error": "..."} plus optional
// details. The frontend switches on status codes, the string is for
// humans.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondErrorDetails(ctx *gin.Context, status int, message string, details interface{}) {
	if details == nil {
		RespondError(ctx, status, message)
		return
	}
	ctx.JSON(status, gin.H{"error": message, "details": details})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondErrorDetails(ctx, http.StatusBadRequest, message, details)
}

// RespondUnauthorized always emits the same body, clients pattern
// match on it.
func RespondUnauthorized(ctx *gin.Context) {
	RespondError(ctx, http.StatusUnauthorized, "Unauthorized")
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}

func RespondBadGateway(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadGateway, message)
}
