package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"tenant-exit-portal/internal/model"
)

// SubmitExitRequest posts an exit request as multipart form data, forwarding
// the supporting document when one is attached.
func (s *Session) SubmitExitRequest(ctx context.Context, req model.NewExitRequest) (*model.SubmitResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"tenant_id", req.TenantID},
		{"name", req.Name},
		{"room_number", req.RoomNumber},
		{"exit_reason", req.ExitReason},
		{"email", req.Email},
		{"exit_date", req.ExitDate},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}
	for _, item := range req.MoveoutChecklist {
		if err := mw.WriteField("moveout_checklist", item); err != nil {
			return nil, fmt.Errorf("failed to write checklist item: %w", err)
		}
	}
	if req.Document != nil {
		if err := writeFile(mw, "supporting_document", req.Document); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var result model.SubmitResult
	if _, err := s.doJSON(ctx, request{
		op:          "submit_exit_request",
		method:      http.MethodPost,
		path:        "/exit-request/submit",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateExitStatus sets the status of an exit request from the front desk.
func (s *Session) UpdateExitStatus(ctx context.Context, requestID string, status model.ExitStatus) (*Message, error) {
	return s.patchStatus(ctx, "update_exit_status", "/exit-request/update-status", requestID, status)
}

// ExitRequestsForTenant lists a tenant's exit requests for the front desk.
func (s *Session) ExitRequestsForTenant(ctx context.Context, tenantID string) ([]model.ExitRequest, error) {
	return getList[model.ExitRequest](ctx, s, request{
		op:     "exit_requests_for_tenant",
		method: http.MethodGet,
		path:   "/exit-request/list" + segment(tenantID),
	})
}

// ExitRequestsByTenant lists a tenant's own exit requests.
func (s *Session) ExitRequestsByTenant(ctx context.Context, tenantID string) ([]model.ExitRequest, error) {
	return getList[model.ExitRequest](ctx, s, request{
		op:     "exit_requests_by_tenant",
		method: http.MethodGet,
		path:   "/exit-request/by-tenant" + segment(tenantID),
	})
}

// Download is a streamed binary response. The caller must close Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// ExitReport streams the CSV report of a tenant's exit requests.
func (s *Session) ExitReport(ctx context.Context, tenantID string) (*Download, error) {
	resp, err := s.do(ctx, request{
		op:     "exit_report",
		method: http.MethodGet,
		path:   "/exit-request/report" + segment(tenantID),
	})
	if err != nil {
		return nil, err
	}

	d := &Download{
		Filename:    fmt.Sprintf("exit_report_%s.csv", tenantID),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}
	if d.ContentType == "" {
		d.ContentType = "text/csv"
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		d.Filename = params["filename"]
	}
	return d, nil
}

func writeFile(mw *multipart.Writer, field string, u *model.Upload) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     field,
		"filename": u.Filename,
	}))
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, u.Body); err != nil {
		return fmt.Errorf("failed to copy uploaded file: %w", err)
	}
	return nil
}
