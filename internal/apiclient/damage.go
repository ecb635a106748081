package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/pricing"
)

// SubmitDamageReport posts a damage report as JSON.
func (s *Session) SubmitDamageReport(ctx context.Context, report model.NewDamageReport) (*model.SubmitResult, error) {
	body, err := jsonBody(report)
	if err != nil {
		return nil, err
	}
	var result model.SubmitResult
	if _, err := s.doJSON(ctx, request{
		op:          "submit_damage_report",
		method:      http.MethodPost,
		path:        "/damage-report/submit",
		body:        body,
		contentType: "application/json",
	}, &result); err != nil {
		return nil, err
	}
	if result.ReportID == "" {
		result.ReportID = report.ReportID
	}
	return &result, nil
}

// SubmitDamageReportForm posts an item based damage report as multipart form data.
func (s *Session) SubmitDamageReportForm(ctx context.Context, report model.ItemDamageReport) (*model.SubmitResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"tenant_id", report.TenantID},
		{"room_number", report.RoomNumber},
		{"description", report.Description},
		{"estimated_cost", pricing.Format(report.EstimatedCost)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var result model.SubmitResult
	if _, err := s.doJSON(ctx, request{
		op:          "submit_damage_report_form",
		method:      http.MethodPost,
		path:        "/damage-report/submit",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DamageReportsForTenant lists a tenant's damage reports.
func (s *Session) DamageReportsForTenant(ctx context.Context, tenantID string) ([]model.DamageReport, error) {
	return getList[model.DamageReport](ctx, s, request{
		op:     "damage_reports_for_tenant",
		method: http.MethodGet,
		path:   "/damage-report/list" + segment(tenantID),
	})
}
