package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/form"
	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/pricing"
	"tenant-exit-portal/internal/render"
)

func (h *Handler) damagePage(c *gin.Context) render.DamagePage {
	return render.DamagePage{
		Page:    h.page(c, "Damage Report"),
		Items:   pricing.Items,
		Checked: map[string]bool{},
		Total:   pricing.Format(0),
		Form:    map[string]string{},
	}
}

// DamagePage renders the item checklist damage form.
func (h *Handler) DamagePage(c *gin.Context) {
	page := h.damagePage(c)
	page.Form["tenant_id"] = c.Query("tenant_id")
	c.HTML(http.StatusOK, render.PageDamage, page)
}

// DamageSubmit reports damage with a cost computed from the checked items.
// On failure the form comes back with what was typed and checked.
func (h *Handler) DamageSubmit(c *gin.Context) {
	page := h.damagePage(c)
	page.Back = "/damage"

	fc, err := collect(c)
	if err != nil {
		page.Notice = render.ErrorNotice(err, render.SubmitDamageFailure)
		c.HTML(render.StatusFor(err), render.PageDamage, page)
		return
	}
	for _, name := range []string{"tenant_id", "room_number", "description"} {
		page.Form[name] = fc.Value(name)
	}
	checked := fc.Checked("items")
	for _, name := range checked {
		page.Checked[name] = true
	}
	page.Total = pricing.Format(pricing.Total(checked))

	df, err := form.ParseItemDamage(fc)
	if err != nil {
		page.Notice = render.ErrorNotice(err, render.SubmitDamageFailure)
		c.HTML(http.StatusBadRequest, render.PageDamage, page)
		return
	}

	report := df.Report()
	result, err := h.upstream(c).SubmitDamageReportForm(c.Request.Context(), report)
	if err != nil {
		h.log.Warn("item damage report submission failed", zap.String("tenant_id", df.TenantID), zap.Error(err))
		page.Notice = render.ErrorNotice(err, render.SubmitDamageFailure)
		c.HTML(render.StatusFor(err), render.PageDamage, page)
		return
	}
	h.journal(c.Request.Context(), model.Submission{
		Kind:          model.SubmissionDamage,
		RecordID:      result.ReportID,
		TenantID:      df.TenantID,
		RoomNumber:    df.RoomNumber,
		EstimatedCost: report.EstimatedCost,
	})

	done := h.damagePage(c)
	done.Back = "/damage"
	done.ReportID = result.ReportID
	done.Notice = render.Success("Success", "Damage report submitted successfully!")
	c.HTML(http.StatusOK, render.PageDamage, done)
}

type estimateResponse struct {
	Items     []string `json:"items"`
	Total     float64  `json:"total"`
	Formatted string   `json:"formatted"`
}

// Estimate returns the cost of the items given as repeated items parameters,
// the same name the damage form posts.
func (h *Handler) Estimate(c *gin.Context) {
	items := form.New(c.Request.URL.Query()).Checked("items")
	known := make([]string, 0, len(items))
	for _, name := range items {
		if _, ok := pricing.Price(name); ok {
			known = append(known, name)
		}
	}
	total := pricing.Total(known)
	c.JSON(http.StatusOK, estimateResponse{Items: known, Total: total, Formatted: pricing.Format(total)})
}
