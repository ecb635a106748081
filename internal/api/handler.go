package api

import (
	"context"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/apiclient"
	"tenant-exit-portal/internal/form"
	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/mw"
	"tenant-exit-portal/internal/notification"
	"tenant-exit-portal/internal/render"
	"tenant-exit-portal/internal/session"
	"tenant-exit-portal/internal/store"
	"tenant-exit-portal/internal/view"
)

// FragmentHeader marks a request that wants a single container back instead
// of the whole page.
const FragmentHeader = "X-Portal-Fragment"

// Notifier queues status change notifications.
type Notifier interface {
	Dispatch(ev notification.StatusEvent) bool
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	client   *apiclient.Client
	store    store.Store
	tracker  *view.Tracker
	notifier Notifier
	cache    *cache.Cache
	cookies  session.Cookies
	webpush  *webpush.Options
	log      *zap.Logger
	now      func() time.Time
}

// Deps are the collaborators of a Handler. Notifier and WebPush may be nil
// when push is disabled.
type Deps struct {
	Client   *apiclient.Client
	Store    store.Store
	Tracker  *view.Tracker
	Notifier Notifier
	Cache    *cache.Cache
	Cookies  session.Cookies
	WebPush  *webpush.Options
	Logger   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		client:   d.Client,
		store:    d.Store,
		tracker:  d.Tracker,
		notifier: d.Notifier,
		cache:    d.Cache,
		cookies:  d.Cookies,
		webpush:  d.WebPush,
		log:      d.Logger,
		now:      time.Now,
	}
}

// upstream returns an API caller for the signed-in user of the request.
func (h *Handler) upstream(c *gin.Context) *apiclient.Session {
	return h.client.Session(mw.Session(c).Token)
}

// page fills the layout fields and consumes a pending flash message.
func (h *Handler) page(c *gin.Context, title string) render.Page {
	p := render.Page{
		Title: title,
		Role:  mw.Session(c).Role,
		Back:  c.Request.URL.RequestURI(),
	}
	if f := h.cookies.TakeFlash(c); f != nil {
		p.Notice = &render.Notice{Level: f.Level, Title: f.Title, Text: f.Text}
	}
	return p
}

// redirectWith stores n for the next page and sends the browser to path.
func (h *Handler) redirectWith(c *gin.Context, path string, n *render.Notice) {
	if n != nil {
		h.cookies.SetFlash(c, session.Flash{Level: n.Level, Title: n.Title, Text: n.Text})
	}
	c.Redirect(http.StatusSeeOther, path)
}

// begin starts a tracked load of one view for the request's session.
func (h *Handler) begin(c *gin.Context, name string) *view.Load {
	return h.tracker.Begin(c.Request.Context(), view.Key(mw.Session(c).Token, name))
}

// finish closes a load. It writes 409 and returns false when a newer load of the
// same view superseded this one.
func (h *Handler) finish(c *gin.Context, load *view.Load, err error) bool {
	if load.Finish(err) {
		return true
	}
	h.log.Debug("discarding superseded load", zap.String("path", c.Request.URL.Path))
	c.String(http.StatusConflict, "superseded by a newer request")
	return false
}

// notice renders a notice fragment with the status that matches err.
func (h *Handler) notice(c *gin.Context, err error, f render.Failure) {
	c.HTML(render.StatusFor(err), render.FragmentNotice, render.ErrorNotice(err, f))
}

func wantsFragment(c *gin.Context) bool {
	return c.GetHeader(FragmentHeader) != ""
}

func collect(c *gin.Context) (*form.Collector, error) {
	return form.FromRequest(c.Request)
}

// journal records an accepted submission. A failure is logged and never
// reported to the user.
func (h *Handler) journal(ctx context.Context, sub model.Submission) {
	sub.SubmittedAt = h.now().UTC()
	if err := h.store.RecordSubmission(ctx, &sub); err != nil {
		h.log.Warn("failed to journal submission", zap.String("kind", string(sub.Kind)), zap.Error(err))
	}
}

// statusChanged journals a status update, drops cached pages that may show the
// old status and queues a push to the tenant.
func (h *Handler) statusChanged(ctx context.Context, requestID, tenantID string, status model.ExitStatus, source string) {
	change := &model.StatusChange{
		RequestID: requestID,
		TenantID:  tenantID,
		NewStatus: status,
		Source:    source,
		ChangedAt: h.now().UTC(),
	}
	if err := h.store.RecordStatusChange(ctx, change); err != nil {
		h.log.Warn("failed to journal status change", zap.String("request_id", requestID), zap.Error(err))
	}
	if h.cache != nil {
		mw.InvalidateAll(h.cache)
	}
	if h.notifier != nil {
		h.notifier.Dispatch(notification.StatusEvent{RequestID: requestID, TenantID: tenantID, Status: status})
	}
}

// Health reports whether the journal database answers.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Index sends the browser to its role's page.
func (h *Handler) Index(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, session.HomePath(h.cookies.Read(c).Role))
}
