package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundryhub-backend/internal/model"
)

type createMachineRequest struct {
	Name string            `json:"name" binding:"required"`
	Type model.MachineType `json:"type" binding:"required"`
}

// CreateMachine registers a washer or dryer. Admin only.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	machine := model.Machine{Name: req.Name, Type: req.Type}
	if err := h.store.CreateMachine(c.Request.Context(), &machine); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, machine)
}

// ListMachines returns all machines with their live status.
func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.store.ListMachines(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}
