package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arjunkh87/bizdash/internal/domain/category"
)

type CategoriesHandler struct{}

func NewCategoriesHandler() *CategoriesHandler {
	return &CategoriesHandler{}
}

// ListCategories serves the fixed catalog. The payload only changes on
// deploy, so the ETag lets settings screens revalidate for free.
func (h *CategoriesHandler) ListCategories(ctx *gin.Context) {
	items := category.All()

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
