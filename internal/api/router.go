package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tenant-exit-portal/internal/mw"
	"tenant-exit-portal/internal/render"
	"tenant-exit-portal/internal/session"
	"tenant-exit-portal/internal/web"
)

// RouterOptions tunes the middleware.
type RouterOptions struct {
	RateLimit rate.Limit
	Burst     int
	CacheTTL  time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, ctl *session.Controller, opts RouterOptions, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(log), mw.Metrics())
	r.SetHTMLTemplate(render.MustTemplates())
	r.StaticFS("/assets", web.Assets())

	rateLimiter := mw.RateLimiter(opts.RateLimit, opts.Burst)

	cacheStore := h.cache
	if cacheStore == nil {
		cacheStore = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
		h.cache = cacheStore
	}
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	ctl.OnLogout = func(st session.State) {
		mw.Invalidate(cacheStore, st.Token)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Health)
	r.GET("/", h.Index)

	r.GET("/login", ctl.LoginPage)
	r.POST("/login", rateLimiter, ctl.Login)
	r.POST("/logout", ctl.Logout)

	staff := []string{session.RoleAdmin, session.RoleDesk}

	admin := r.Group("/admin", mw.RequireRole(ctl.Cookies(), session.RoleAdmin))
	{
		admin.GET("", h.AdminPage)
		admin.GET("/fragments/exit-requests", h.AdminExitsFragment)
		admin.GET("/fragments/damage-reports", h.AdminDamagesFragment)
		admin.POST("/exit-requests/status", h.AdminUpdateStatus)
		admin.POST("/exit-requests/fields", h.AdminUpdateFields)
		admin.GET("/exports/exit-requests.xlsx", h.AdminExportXLSX)
		admin.GET("/exports/exit-requests.pdf", h.AdminExportPDF)
	}

	r.GET("/landlord", mw.RequireRole(ctl.Cookies(), session.RoleLandlord), caching, h.LandlordPage)

	tenant := r.Group("/tenant", mw.RequireRole(ctl.Cookies(), session.RoleTenant))
	{
		tenant.GET("", h.TenantPage)
		tenant.POST("/exit-requests", h.TenantSubmitExit)
		tenant.GET("/fragments/my-requests", h.TenantRequestsFragment)
	}

	desk := r.Group("/desk", mw.RequireRole(ctl.Cookies(), staff...))
	{
		desk.GET("", h.DeskPage)
		desk.POST("/exit-requests", h.DeskSubmitExit)
		desk.POST("/damage-reports", h.DeskSubmitDamage)
		desk.GET("/lookup", h.DeskLookup)
		desk.POST("/exit-requests/status", h.DeskUpdateStatus)
		desk.GET("/report", h.DeskReport)
	}

	damage := r.Group("/damage", mw.RequireRole(ctl.Cookies(), session.RoleTenant, session.RoleAdmin, session.RoleDesk))
	{
		damage.GET("", h.DamagePage)
		damage.POST("", h.DamageSubmit)
	}

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/damage/estimate", h.Estimate)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		push := api.Group("/subscriptions", mw.RequireRole(ctl.Cookies(), session.RoleTenant))
		push.GET("", h.GetSubscription)
		push.PUT("", h.PutSubscription)
		push.DELETE("", h.DeleteSubscription)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
