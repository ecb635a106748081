package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/render"
)

// LandlordPage renders approved exits, room history and the move timeline.
// The first failing list sets the notice, the others still render.
func (h *Handler) LandlordPage(c *gin.Context) {
	api := h.upstream(c)
	ctx := c.Request.Context()
	page := render.LandlordPage{Page: h.page(c, "Landlord Dashboard")}
	status := http.StatusOK

	fail := func(what string, err error) {
		h.log.Warn("landlord list failed", zap.String("list", what), zap.Error(err))
		if page.Notice == nil {
			page.Notice = render.ErrorNotice(err, render.LoadFailure)
			status = render.StatusFor(err)
		}
	}

	exits, err := api.ApprovedExits(ctx)
	if err != nil {
		fail("approved_exits", err)
	}
	page.ApprovedExits = render.ApprovedExitRows(exits)

	history, err := api.RoomHistory(ctx)
	if err != nil {
		fail("room_history", err)
	}
	page.RoomHistory = render.RoomHistoryRows(history)

	events, err := api.MoveTimeline(ctx)
	if err != nil {
		fail("move_timeline", err)
	}
	page.MoveTimeline = render.MoveEventRows(events)

	c.HTML(status, render.PageLandlord, page)
}
