package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundryhub-backend/internal/model"
	"laundryhub-backend/internal/mw"
	"laundryhub-backend/internal/store"
)

type createOrderRequest struct {
	QRCode              string `json:"qrCode" binding:"required"`
	BagQRCode           string `json:"bagQRCode"`
	Items               string `json:"items" binding:"required"`
	SpecialInstructions string `json:"specialInstructions"`
	StudentNotes        string `json:"studentNotes"`
}

// CreateOrder submits a new order for the authenticated student.
// Special instructions and notes are fixed here and immutable after.
func (h *Handler) CreateOrder(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	order := model.LaundryOrder{
		StudentID:           claims.UserID,
		StudentName:         claims.Name,
		QRCode:              req.QRCode,
		BagQRCode:           req.BagQRCode,
		Items:               req.Items,
		SpecialInstructions: req.SpecialInstructions,
		StudentNotes:        req.StudentNotes,
	}
	if err := h.store.CreateOrder(c.Request.Context(), &order); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders returns orders scoped by role: students see their own,
// operators and admins see everything. Supports status filtering and
// substring search over the bag code and student name.
func (h *Handler) ListOrders(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	filter := store.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Search: c.Query("q"),
	}
	if claims.Role == model.RoleStudent {
		filter.StudentID = claims.UserID
	}

	orders, err := h.store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order. Students may only read their own.
func (h *Handler) GetOrder(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	order, err := h.store.OrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if claims.Role == model.RoleStudent && order.StudentID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"redirect": claims.Role.DefaultRoute()})
		return
	}
	c.JSON(http.StatusOK, order)
}

type advanceOrderRequest struct {
	Status    model.OrderStatus `json:"status" binding:"required"`
	MachineID string            `json:"machineId"`
}

// AdvanceOrder moves an order one step forward. Operators only. The
// student is notified after the transition commits; notification
// failures never roll the state back.
func (h *Handler) AdvanceOrder(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	var req advanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	order, err := h.store.AdvanceOrder(c.Request.Context(), c.Param("id"), req.Status, store.AdvanceOptions{
		OperatorID:   claims.UserID,
		OperatorName: claims.Name,
		MachineID:    req.MachineID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveTransition("order", string(order.Status))
	}
	h.notifyOrder(order.ID)

	c.JSON(http.StatusOK, order)
}

type bagPhotoRequest struct {
	Photo string `json:"photo" binding:"required"`
}

// AttachBagPhoto stores a photo of the bag, allowed at or after pickup.
func (h *Handler) AttachBagPhoto(c *gin.Context) {
	var req bagPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.store.AttachBagPhoto(c.Request.Context(), c.Param("id"), req.Photo); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
