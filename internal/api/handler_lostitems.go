package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laundryhub-backend/internal/model"
	"laundryhub-backend/internal/mw"
	"laundryhub-backend/internal/store"
)

type createLostItemRequest struct {
	Description string `json:"description" binding:"required"`
	Hostel      string `json:"hostel"`
	Photo       string `json:"photo"`
	Priority    string `json:"priority"`
}

// CreateLostItem files a report. Students enter at reported, operators
// at found.
func (h *Handler) CreateLostItem(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	var req createLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry := model.LostReported
	if claims.Role == model.RoleOperator || claims.Role == model.RoleAdmin {
		entry = model.LostFound
	}

	item := model.LostItem{
		Description:    req.Description,
		ReportedBy:     claims.UserID,
		ReportedByName: claims.Name,
		Status:         entry,
		Hostel:         req.Hostel,
		Photo:          req.Photo,
		Priority:       req.Priority,
	}
	if err := h.store.CreateLostItem(c.Request.Context(), &item); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListLostItems returns items with search over the description.
// Students only browse visible items scoped to their hostel.
func (h *Handler) ListLostItems(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	filter := store.LostFilter{Search: c.Query("q"), Hostel: c.Query("hostel")}
	if claims.Role == model.RoleStudent {
		filter.VisibleOnly = true
	}

	items, err := h.store.ListLostItems(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type claimLostItemRequest struct {
	// Operators claim on behalf of a student; students claim for
	// themselves and may omit this.
	StudentID string `json:"studentId"`
}

// ClaimLostItem marks an item claimed. Works straight from either
// entry state: front-line claim-marking is deliberately independent of
// the administrative audit.
func (h *Handler) ClaimLostItem(c *gin.Context) {
	claims := mw.CurrentClaims(c)

	var req claimLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claimant := &model.User{ID: claims.UserID, Name: claims.Name}
	if req.StudentID != "" && claims.Role != model.RoleStudent {
		student, err := h.store.UserByID(c.Request.Context(), req.StudentID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		claimant = student
	}

	item, err := h.store.ClaimLostItem(c.Request.Context(), c.Param("id"), claimant, time.Now().UTC())
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveTransition("lostitem", string(item.Status))
	}
	c.JSON(http.StatusOK, item)
}

type moderateLostItemRequest struct {
	Status model.LostStatus `json:"status" binding:"required"`
}

// ModerateLostItem applies the admin review path: approve, reject, or
// mark returned.
func (h *Handler) ModerateLostItem(c *gin.Context) {
	var req moderateLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := h.store.ModerateLostItem(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveTransition("lostitem", string(item.Status))
	}
	c.JSON(http.StatusOK, item)
}
