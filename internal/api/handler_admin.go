package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundryhub-backend/internal/model"
)

// GetAnalytics returns the admin dashboard summary: per-collection
// status counts and the student head count.
func (h *Handler) GetAnalytics(c *gin.Context) {
	a, err := h.store.StatusCounts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// ListUsers returns accounts, optionally filtered by role.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context(), model.Role(c.Query("role")))
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}
