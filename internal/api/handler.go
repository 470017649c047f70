package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"laundryhub-backend/internal/lifecycle"
	"laundryhub-backend/internal/mw"
	"laundryhub-backend/internal/notification"
	"laundryhub-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	issuer  *mw.TokenIssuer
	pool    *notification.WorkerPool
	metrics *mw.Metrics
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, issuer *mw.TokenIssuer, pool *notification.WorkerPool, metrics *mw.Metrics) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		issuer:  issuer,
		pool:    pool,
		metrics: metrics,
	}
}

// abortWithError maps domain errors onto HTTP statuses. Validation
// failures and invalid transitions carry their message; everything else
// is reported as a transient gateway failure safe to retry.
func abortWithError(c *gin.Context, err error) {
	var ve *lifecycle.ValidationError
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		return
	}

	var ite *lifecycle.InvalidTransitionError
	if errors.As(err, &ite) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": ite.Error()})
		return
	}

	if errors.Is(err, store.ErrMachineUnavailable) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "temporary storage failure, please retry"})
}

// notifyOrder dispatches a best-effort push for an order transition.
func (h *Handler) notifyOrder(orderID string) {
	if h.pool != nil {
		h.pool.Dispatch(orderID)
	}
}
