package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"laundryhub-backend/config"
	"laundryhub-backend/internal/model"
	"laundryhub-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, h *Handler, issuer *mw.TokenIssuer, metrics *mw.Metrics) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	if metrics != nil {
		api.Use(metrics.Instrument())
	}
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	authed := api.Group("")
	authed.Use(mw.RequireAuth(issuer))
	{
		authed.PATCH("/users/:id/profile", h.UpdateProfile)

		authed.GET("/subscriptions", h.GetSubscription)
		authed.PUT("/subscriptions", h.PutSubscription)
		authed.DELETE("/subscriptions", h.DeleteSubscription)

		authed.POST("/orders", mw.RequireRoles(model.RoleStudent), h.CreateOrder)
		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:id", h.GetOrder)

		authed.GET("/lost-items", caching, h.ListLostItems)
		authed.POST("/lost-items", h.CreateLostItem)
		authed.POST("/lost-items/:id/claim", h.ClaimLostItem)
	}

	staff := authed.Group("")
	staff.Use(mw.RequireRoles(model.RoleOperator, model.RoleAdmin))
	{
		staff.POST("/orders/:id/advance", h.AdvanceOrder)
		staff.POST("/orders/:id/photo", h.AttachBagPhoto)

		staff.GET("/qrcodes", h.ListQRCodes)
		staff.GET("/qrcodes/:code", h.GetQRCode)
		staff.POST("/qrcodes/:code/assign", h.AssignQRCode)
		staff.POST("/qrcodes/:code/verify", h.VerifyQRCode)

		staff.GET("/machines", caching, h.ListMachines)
	}

	admin := authed.Group("")
	admin.Use(mw.RequireRoles(model.RoleAdmin))
	{
		admin.POST("/qrcodes", h.MintQRCodes)
		admin.POST("/machines", h.CreateMachine)
		admin.POST("/lost-items/:id/moderate", h.ModerateLostItem)

		admin.GET("/admin/users", h.ListUsers)
		admin.GET("/admin/analytics", caching, h.GetAnalytics)
	}

	return r
}
