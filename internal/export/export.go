// Package export renders the admin's exit request list as XLSX and PDF.
package export

import (
	"fmt"
	"time"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/parse"
	"tenant-exit-portal/internal/render"
)

// Content types of the generated files.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

var exitHeaders = []string{
	"Request ID", "Tenant ID", "Name", "Room", "Email", "Exit Date",
	"Reason", "Status", "Checklist", "Submitted", "Admin Notes",
}

func exitRecord(r model.ExitRequest) []string {
	checklist := render.ChecklistText(r.MoveoutChecklist)
	return []string{
		r.RequestID,
		r.TenantID,
		r.Name,
		r.RoomNumber,
		r.Email,
		parse.Date(r.ExitDate),
		r.ExitReason,
		string(r.Status),
		checklist,
		parse.DateTime(r.SubmittedAt),
		r.AdminNotes,
	}
}

// Filename names an export generated at t.
func Filename(ext string, t time.Time) string {
	return fmt.Sprintf("exit_requests_%s.%s", t.Format("20060102_150405"), ext)
}
