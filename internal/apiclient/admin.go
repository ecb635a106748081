package apiclient

import (
	"context"
	"net/http"

	"tenant-exit-portal/internal/model"
)

// AdminExitRequests lists every exit request, optionally filtered.
func (s *Session) AdminExitRequests(ctx context.Context, f model.ExitRequestFilter) ([]model.ExitRequest, error) {
	return getList[model.ExitRequest](ctx, s, request{
		op:     "admin_exit_requests",
		method: http.MethodGet,
		path:   "/admin/exit-requests",
		query:  f.Query(),
	})
}

// AdminDamageReports lists every damage report.
func (s *Session) AdminDamageReports(ctx context.Context) ([]model.DamageReport, error) {
	return getList[model.DamageReport](ctx, s, request{
		op:     "admin_damage_reports",
		method: http.MethodGet,
		path:   "/admin/damage-reports",
	})
}

// AdminUpdateExitStatus sets the status of an exit request from the admin page.
func (s *Session) AdminUpdateExitStatus(ctx context.Context, requestID string, status model.ExitStatus) (*Message, error) {
	return s.patchStatus(ctx, "admin_update_exit_status", "/admin/update-exit-status", requestID, status)
}

// AdminUpdateExitFields edits the notes, reason or checklist of an exit request.
func (s *Session) AdminUpdateExitFields(ctx context.Context, u model.ExitFieldsUpdate) (*Message, error) {
	body, err := jsonBody(u)
	if err != nil {
		return nil, err
	}
	var msg Message
	if _, err := s.doJSON(ctx, request{
		op:          "admin_update_exit_fields",
		method:      http.MethodPatch,
		path:        "/admin/update-exit-fields",
		body:        body,
		contentType: "application/json",
	}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AdminDashboardSummary returns the request counters shown on the admin page.
func (s *Session) AdminDashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if _, err := s.doJSON(ctx, request{
		op:     "admin_dashboard_summary",
		method: http.MethodGet,
		path:   "/admin/dashboard-summary",
	}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

type statusUpdate struct {
	RequestID string           `json:"request_id"`
	NewStatus model.ExitStatus `json:"new_status"`
}

func (s *Session) patchStatus(ctx context.Context, op, path, requestID string, status model.ExitStatus) (*Message, error) {
	body, err := jsonBody(statusUpdate{RequestID: requestID, NewStatus: status})
	if err != nil {
		return nil, err
	}
	var msg Message
	if _, err := s.doJSON(ctx, request{
		op:          op,
		method:      http.MethodPatch,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
