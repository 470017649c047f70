package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laundryhub-backend/internal/model"
	"laundryhub-backend/internal/mw"
)

type mintQRCodesRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// MintQRCodes creates a batch of available codes. Admin only.
func (h *Handler) MintQRCodes(c *gin.Context) {
	var req mintQRCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	codes, err := h.store.CreateQRCodes(c.Request.Context(), req.Codes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, codes)
}

// ListQRCodes returns all codes with search over the code string and
// the assignee name.
func (h *Handler) ListQRCodes(c *gin.Context) {
	codes, err := h.store.ListQRCodes(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

type assignQRCodeRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

// AssignQRCode binds an available code to a student. The scanned or
// hand-typed payload arrives as the code path parameter; both entry
// paths land here.
func (h *Handler) AssignQRCode(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	var req assignQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	student, err := h.store.UserByID(c.Request.Context(), req.StudentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if student.Role != model.RoleStudent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codes may only be assigned to students"})
		return
	}

	operator := &model.User{ID: claims.UserID, Name: claims.Name}
	qr, err := h.store.AssignQRCode(c.Request.Context(), c.Param("code"), student, operator, time.Now().UTC())
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveTransition("qrcode", string(qr.Status))
	}
	c.JSON(http.StatusOK, qr)
}

// VerifyQRCode confirms the bag contents match the declared items.
func (h *Handler) VerifyQRCode(c *gin.Context) {
	qr, err := h.store.VerifyQRCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveTransition("qrcode", string(qr.Status))
	}
	c.JSON(http.StatusOK, qr)
}

// GetQRCode looks up one code by its scannable string.
func (h *Handler) GetQRCode(c *gin.Context) {
	qr, err := h.store.QRCodeByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}
