package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/export"
	"tenant-exit-portal/internal/form"
	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/render"
)

const (
	viewAdminExits   = "admin-exits"
	viewAdminDamages = "admin-damages"
)

func adminFilter(c *gin.Context) model.ExitRequestFilter {
	return form.ParseFilter(form.New(c.Request.URL.Query()))
}

// AdminPage renders the dashboard summary, the filtered exit requests and all damage reports.
func (h *Handler) AdminPage(c *gin.Context) {
	api := h.upstream(c)
	page := render.AdminPage{
		Page:      h.page(c, "Admin Dashboard"),
		Filter:    adminFilter(c),
		Statuses:  model.AdminStatuses,
		Checklist: render.MoveoutChecklist,
	}

	load := h.begin(c, viewAdminExits)
	exits, err := api.AdminExitRequests(load.Context(), page.Filter)
	if !h.finish(c, load, err) {
		return
	}
	status := http.StatusOK
	if err != nil {
		h.log.Warn("admin exit requests failed", zap.Error(err))
		page.Notice = render.ErrorNotice(err, render.LoadFailure)
		status = render.StatusFor(err)
	}
	page.Exits = render.AdminExitRows(exits)

	damages, err := api.AdminDamageReports(c.Request.Context())
	if err != nil {
		h.log.Warn("admin damage reports failed", zap.Error(err))
		if page.Notice == nil {
			page.Notice = render.ErrorNotice(err, render.LoadFailure)
			status = render.StatusFor(err)
		}
	}
	page.Damages = render.AdminDamageRows(damages)

	// The summary is optional decoration.
	if summary, err := api.AdminDashboardSummary(c.Request.Context()); err != nil {
		h.log.Info("dashboard summary unavailable", zap.Error(err))
	} else {
		page.Summary = summary
	}

	c.HTML(status, render.PageAdmin, page)
}

// AdminExitsFragment re-renders the exit request container.
func (h *Handler) AdminExitsFragment(c *gin.Context) {
	filter := adminFilter(c)
	load := h.begin(c, viewAdminExits)
	exits, err := h.upstream(c).AdminExitRequests(load.Context(), filter)
	if !h.finish(c, load, err) {
		return
	}
	if err != nil {
		h.notice(c, err, render.LoadFailure)
		return
	}
	c.HTML(http.StatusOK, render.FragmentAdminExits, render.AdminPage{
		Filter:   filter,
		Exits:    render.AdminExitRows(exits),
		Statuses: model.AdminStatuses,
	})
}

// AdminDamagesFragment re-renders the damage report container.
func (h *Handler) AdminDamagesFragment(c *gin.Context) {
	load := h.begin(c, viewAdminDamages)
	reports, err := h.upstream(c).AdminDamageReports(load.Context())
	if !h.finish(c, load, err) {
		return
	}
	if err != nil {
		h.notice(c, err, render.LoadFailure)
		return
	}
	c.HTML(http.StatusOK, render.FragmentAdminDamages, render.AdminDamageRows(reports))
}

// AdminUpdateStatus applies the status picked in one row of the exit request container.
func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	back := adminBack(c)
	fc, err := collect(c)
	if err != nil {
		h.redirectWith(c, back, render.ErrorNotice(err, render.AdminStatusFailure))
		return
	}
	sf, err := form.ParseStatus(fc, model.AdminStatuses)
	if err != nil {
		h.redirectWith(c, back, render.ErrorNotice(err, render.AdminStatusFailure))
		return
	}

	msg, err := h.upstream(c).AdminUpdateExitStatus(c.Request.Context(), sf.RequestID, sf.NewStatus)
	if err != nil {
		h.log.Warn("admin status update failed", zap.String("request_id", sf.RequestID), zap.Error(err))
		h.redirectWith(c, back, render.ErrorNotice(err, render.AdminStatusFailure))
		return
	}
	h.statusChanged(c.Request.Context(), sf.RequestID, fc.Value("tenant_id"), sf.NewStatus, "admin")

	text := msg.Message
	if text == "" {
		text = "Status updated successfully"
	}
	h.redirectWith(c, back, render.Success("Status Updated", text))
}

// AdminUpdateFields saves the admin notes, reason and checklist of one request.
func (h *Handler) AdminUpdateFields(c *gin.Context) {
	back := adminBack(c)
	fc, err := collect(c)
	if err != nil {
		h.redirectWith(c, back, render.ErrorNotice(err, render.FieldsFailure))
		return
	}
	ff, err := form.ParseExitFields(fc)
	if err != nil {
		h.redirectWith(c, back, render.ErrorNotice(err, render.FieldsFailure))
		return
	}

	msg, err := h.upstream(c).AdminUpdateExitFields(c.Request.Context(), ff.Update())
	if err != nil {
		h.log.Warn("admin field update failed", zap.String("request_id", ff.RequestID), zap.Error(err))
		h.redirectWith(c, back, render.ErrorNotice(err, render.FieldsFailure))
		return
	}

	text := msg.Message
	if text == "" {
		text = "Request updated successfully"
	}
	h.redirectWith(c, back, render.Success("Request Updated", text))
}

// AdminExportXLSX downloads the filtered exit requests as a spreadsheet.
func (h *Handler) AdminExportXLSX(c *gin.Context) {
	h.exportExits(c, "xlsx", export.ContentTypeXLSX, func(reqs []model.ExitRequest) ([]byte, error) {
		return export.ExitRequestsXLSX(reqs)
	})
}

// AdminExportPDF downloads the filtered exit requests as a PDF table.
func (h *Handler) AdminExportPDF(c *gin.Context) {
	h.exportExits(c, "pdf", export.ContentTypePDF, func(reqs []model.ExitRequest) ([]byte, error) {
		return export.ExitRequestsPDF(reqs, h.now())
	})
}

func (h *Handler) exportExits(c *gin.Context, ext, contentType string, build func([]model.ExitRequest) ([]byte, error)) {
	reqs, err := h.upstream(c).AdminExitRequests(c.Request.Context(), adminFilter(c))
	if err != nil {
		h.redirectWith(c, "/admin", render.ErrorNotice(err, render.LoadFailure))
		return
	}
	data, err := build(reqs)
	if err != nil {
		h.log.Error("export failed", zap.String("format", ext), zap.Error(err))
		h.redirectWith(c, "/admin", &render.Notice{Level: render.LevelError, Title: "Export Failed", Text: "Could not generate the export."})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(ext, h.now())))
	c.Data(http.StatusOK, contentType, data)
}

func adminBack(c *gin.Context) string {
	if back := c.PostForm("back"); strings.HasPrefix(back, "/admin") {
		return back
	}
	return "/admin"
}
