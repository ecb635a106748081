package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/form"
	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/render"
)

const viewTenantRequests = "tenant-requests"

// TenantPage renders the exit form and, when a tenant id is given, that tenant's requests.
func (h *Handler) TenantPage(c *gin.Context) {
	page := render.TenantPage{
		Page:      h.page(c, "Tenant Dashboard"),
		TenantID:  c.Query("tenant_id"),
		Checklist: render.MoveoutChecklist,
	}
	status := http.StatusOK
	if page.TenantID != "" {
		load := h.begin(c, viewTenantRequests)
		reqs, err := h.upstream(c).ExitRequestsByTenant(load.Context(), page.TenantID)
		if !h.finish(c, load, err) {
			return
		}
		if err != nil {
			h.log.Warn("tenant requests failed", zap.String("tenant_id", page.TenantID), zap.Error(err))
			if page.Notice == nil {
				page.Notice = render.ErrorNotice(err, render.LoadFailure)
			}
			status = render.StatusFor(err)
		}
		rows := render.TenantRequestRows(reqs)
		page.Requests = &rows
	}
	c.HTML(status, render.PageTenant, page)
}

// TenantRequestsFragment re-renders the "my requests" cards.
func (h *Handler) TenantRequestsFragment(c *gin.Context) {
	lf, err := form.ParseLookup(form.New(c.Request.URL.Query()))
	if err != nil {
		c.HTML(http.StatusBadRequest, render.FragmentNotice, missingTenant())
		return
	}
	load := h.begin(c, viewTenantRequests)
	reqs, err := h.upstream(c).ExitRequestsByTenant(load.Context(), lf.TenantID)
	if !h.finish(c, load, err) {
		return
	}
	if err != nil {
		h.notice(c, err, render.LoadFailure)
		return
	}
	c.HTML(http.StatusOK, render.FragmentTenantRequests, render.TenantRequestRows(reqs))
}

// TenantSubmitExit submits the tenant's exit request.
func (h *Handler) TenantSubmitExit(c *gin.Context) {
	tenantID, err := h.submitExit(c)
	if err != nil {
		page := render.TenantPage{
			Page:      h.page(c, "Tenant Dashboard"),
			TenantID:  tenantID,
			Checklist: render.MoveoutChecklist,
		}
		page.Back = "/tenant"
		page.Notice = render.ErrorNotice(err, render.SubmitExitFailure)
		c.HTML(render.StatusFor(err), render.PageTenant, page)
		return
	}
	h.redirectWith(c, "/tenant?tenant_id="+url.QueryEscape(tenantID), exitSubmitted())
}

// submitExit validates and forwards an exit request form. It returns the
// tenant id typed into the form even when the submission fails.
func (h *Handler) submitExit(c *gin.Context) (string, error) {
	fc, err := collect(c)
	if err != nil {
		return "", err
	}
	tenantID := fc.Value("tenant_id")

	ef, err := form.ParseExitRequest(fc)
	if err != nil {
		return tenantID, err
	}
	req, closer, err := ef.Request()
	defer closer.Close()
	if err != nil {
		return tenantID, err
	}

	result, err := h.upstream(c).SubmitExitRequest(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("exit request submission failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return tenantID, err
	}
	h.journal(c.Request.Context(), model.Submission{
		Kind:       model.SubmissionExit,
		RecordID:   result.RequestID,
		TenantID:   ef.TenantID,
		RoomNumber: ef.RoomNumber,
	})
	return tenantID, nil
}

func exitSubmitted() *render.Notice {
	return render.Success("Success", "Exit request submitted successfully!")
}

func missingTenant() *render.Notice {
	return &render.Notice{Level: render.LevelWarning, Title: "Missing Tenant ID", Text: "Please enter a Tenant ID."}
}
