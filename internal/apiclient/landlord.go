package apiclient

import (
	"context"
	"net/http"

	"tenant-exit-portal/internal/model"
)

// ApprovedExits lists approved exits for the landlord.
func (s *Session) ApprovedExits(ctx context.Context) ([]model.ApprovedExit, error) {
	return getList[model.ApprovedExit](ctx, s, request{
		op:     "approved_exits",
		method: http.MethodGet,
		path:   "/landlord/approved-exits",
	})
}

// RoomHistory lists past tenancies per room.
func (s *Session) RoomHistory(ctx context.Context) ([]model.RoomHistoryEntry, error) {
	return getList[model.RoomHistoryEntry](ctx, s, request{
		op:     "room_history",
		method: http.MethodGet,
		path:   "/landlord/room-history",
	})
}

// MoveTimeline lists move-in and move-out events.
func (s *Session) MoveTimeline(ctx context.Context) ([]model.MoveEvent, error) {
	return getList[model.MoveEvent](ctx, s, request{
		op:     "move_timeline",
		method: http.MethodGet,
		path:   "/landlord/move-timeline",
	})
}
