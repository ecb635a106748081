package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/form"
	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/render"
)

const viewDeskLookup = "desk-lookup"

func (h *Handler) deskPage(c *gin.Context) render.DeskPage {
	return render.DeskPage{
		Page:      h.page(c, "Front Desk"),
		Checklist: render.MoveoutChecklist,
	}
}

// DeskPage renders the front desk forms.
func (h *Handler) DeskPage(c *gin.Context) {
	page := h.deskPage(c)
	page.TenantID = c.Query("tenant_id")
	c.HTML(http.StatusOK, render.PageDesk, page)
}

// DeskSubmitExit submits an exit request on behalf of a tenant.
func (h *Handler) DeskSubmitExit(c *gin.Context) {
	tenantID, err := h.submitExit(c)
	if err != nil {
		page := h.deskPage(c)
		page.TenantID = tenantID
		page.Back = "/desk"
		page.Notice = render.ErrorNotice(err, render.SubmitExitFailure)
		c.HTML(render.StatusFor(err), render.PageDesk, page)
		return
	}
	h.redirectWith(c, "/desk", exitSubmitted())
}

// DeskSubmitDamage submits a damage report with a free-form amount.
func (h *Handler) DeskSubmitDamage(c *gin.Context) {
	fail := func(err error) {
		page := h.deskPage(c)
		page.Back = "/desk"
		page.Notice = render.ErrorNotice(err, render.SubmitDamageFailure)
		c.HTML(render.StatusFor(err), render.PageDesk, page)
	}

	fc, err := collect(c)
	if err != nil {
		fail(err)
		return
	}
	df, err := form.ParseDeskDamage(fc)
	if err != nil {
		fail(err)
		return
	}

	report := model.NewDamageReport{
		ReportID:      NewDamageReportID(),
		TenantID:      df.TenantID,
		RoomNumber:    df.RoomNumber,
		Description:   df.Description,
		EstimatedCost: df.Cost,
		ReportedAt:    h.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	result, err := h.upstream(c).SubmitDamageReport(c.Request.Context(), report)
	if err != nil {
		h.log.Warn("damage report submission failed", zap.String("tenant_id", df.TenantID), zap.Error(err))
		fail(err)
		return
	}
	h.journal(c.Request.Context(), model.Submission{
		Kind:          model.SubmissionDamage,
		RecordID:      result.ReportID,
		TenantID:      df.TenantID,
		RoomNumber:    df.RoomNumber,
		EstimatedCost: df.Cost,
	})
	h.redirectWith(c, "/desk", render.Success("Success", "Damage report submitted successfully!"))
}

// DeskLookup loads a tenant's exit requests and damage reports. Fragment
// requests get the lookup container only.
func (h *Handler) DeskLookup(c *gin.Context) {
	lf, err := form.ParseLookup(form.New(c.Request.URL.Query()))
	if err != nil {
		if wantsFragment(c) {
			c.HTML(http.StatusBadRequest, render.FragmentNotice, missingTenant())
			return
		}
		page := h.deskPage(c)
		page.Notice = missingTenant()
		c.HTML(http.StatusBadRequest, render.PageDesk, page)
		return
	}

	api := h.upstream(c)
	load := h.begin(c, viewDeskLookup)
	exits, err := api.ExitRequestsForTenant(load.Context(), lf.TenantID)
	var damages []model.DamageReport
	if err == nil {
		damages, err = api.DamageReportsForTenant(load.Context(), lf.TenantID)
	}
	if !h.finish(c, load, err) {
		return
	}
	if err != nil {
		h.log.Warn("desk lookup failed", zap.String("tenant_id", lf.TenantID), zap.Error(err))
		if wantsFragment(c) {
			h.notice(c, err, render.LoadFailure)
			return
		}
		page := h.deskPage(c)
		page.TenantID = lf.TenantID
		page.Notice = render.ErrorNotice(err, render.LoadFailure)
		c.HTML(render.StatusFor(err), render.PageDesk, page)
		return
	}

	lookup := &render.DeskLookup{
		TenantID: lf.TenantID,
		Exits:    render.DeskExitRows(exits),
		Damages:  render.DeskDamageRows(damages),
		Actions:  model.DeskStatuses,
	}
	if wantsFragment(c) {
		c.HTML(http.StatusOK, render.FragmentDeskLookup, lookup)
		return
	}
	page := h.deskPage(c)
	page.TenantID = lf.TenantID
	page.Lookup = lookup
	c.HTML(http.StatusOK, render.PageDesk, page)
}

// DeskUpdateStatus applies an Approve or Needs Action button from the lookup list.
func (h *Handler) DeskUpdateStatus(c *gin.Context) {
	fc, err := collect(c)
	if err != nil {
		h.redirectWith(c, "/desk", render.ErrorNotice(err, render.DeskStatusFailure))
		return
	}
	tenantID := fc.Value("tenant_id")
	back := "/desk"
	if tenantID != "" {
		back = "/desk/lookup?tenant_id=" + url.QueryEscape(tenantID)
	}

	sf, err := form.ParseStatus(fc, model.DeskStatuses)
	if err != nil {
		h.redirectWith(c, back, render.ErrorNotice(err, render.DeskStatusFailure))
		return
	}
	if _, err := h.upstream(c).UpdateExitStatus(c.Request.Context(), sf.RequestID, sf.NewStatus); err != nil {
		h.log.Warn("desk status update failed", zap.String("request_id", sf.RequestID), zap.Error(err))
		h.redirectWith(c, back, render.ErrorNotice(err, render.DeskStatusFailure))
		return
	}
	h.statusChanged(c.Request.Context(), sf.RequestID, tenantID, sf.NewStatus, "desk")
	h.redirectWith(c, back, render.Success("Success", fmt.Sprintf("Request marked as '%s'", sf.NewStatus)))
}

// DeskReport streams the upstream CSV report of one tenant's exit requests.
func (h *Handler) DeskReport(c *gin.Context) {
	lf, err := form.ParseLookup(form.New(c.Request.URL.Query()))
	if err != nil {
		h.redirectWith(c, "/desk", missingTenant())
		return
	}
	dl, err := h.upstream(c).ExitReport(c.Request.Context(), lf.TenantID)
	if err != nil {
		h.log.Warn("exit report download failed", zap.String("tenant_id", lf.TenantID), zap.Error(err))
		n := render.ErrorNotice(err, render.ReportFailure)
		n.Text = render.ReportFailure.HTTP
		h.redirectWith(c, "/desk?tenant_id="+url.QueryEscape(lf.TenantID), n)
		return
	}
	defer dl.Body.Close()

	c.DataFromReader(http.StatusOK, -1, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", dl.Filename),
	})
}

// NewDamageReportID returns "damage_" followed by eight random characters.
func NewDamageReportID() string {
	return "damage_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
