package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/parse"
	"tenant-exit-portal/internal/pricing"
)

const checklistPreview = 40

// Placeholders shown when a list comes back empty.
const (
	NoExitRequests   = "No exit requests found."
	NoDamageReports  = "No damage reports found."
	NoTenantRequests = "No requests submitted yet."
	NoApprovedExits  = "No approved exits found."
	NoRoomHistory    = "No room history found."
	NoMoveEvents     = "No movement events found."
)

// List is an ordered set of rows, or a single placeholder when Rows is empty.
type List[T any] struct {
	Rows        []T
	Placeholder string
}

// Empty reports whether the placeholder should be rendered instead of rows.
func (l List[T]) Empty() bool {
	return len(l.Rows) == 0
}

func newList[S, T any](items []S, placeholder string, row func(int, S) T) List[T] {
	rows := make([]T, 0, len(items))
	for i, it := range items {
		rows = append(rows, row(i, it))
	}
	return List[T]{Rows: rows, Placeholder: placeholder}
}

// ExitRow is one exit request prepared for display.
type ExitRow struct {
	RequestID     string
	TenantID      string
	Name          string
	RoomNumber    string
	ExitReason    string
	ExitDate      string
	Email         string
	Status        model.ExitStatus
	StatusClass   string
	Checklist     string
	ChecklistFull string
	SubmittedAt   string
	DocumentURL   string
	AdminNotes    string
}

// DamageRow is one damage report prepared for display.
type DamageRow struct {
	ReportID    string
	TenantID    string
	RoomNumber  string
	Description string
	Cost        string
	ReportedAt  string
	DocumentURL string
}

// ApprovedExitRow is a landlord card for one approved exit.
type ApprovedExitRow struct {
	Label      string
	Name       string
	RoomNumber string
	ExitDate   string
}

func exitRow(r model.ExitRequest, styles StyleTable, date func(string) string) ExitRow {
	full := ChecklistText(r.MoveoutChecklist)
	return ExitRow{
		RequestID:     r.RequestID,
		TenantID:      r.TenantID,
		Name:          r.Name,
		RoomNumber:    r.RoomNumber,
		ExitReason:    r.ExitReason,
		ExitDate:      r.ExitDate,
		Email:         r.Email,
		Status:        r.Status,
		StatusClass:   styles.For(r.Status),
		Checklist:     Truncate(full, checklistPreview),
		ChecklistFull: full,
		SubmittedAt:   date(r.SubmittedAt),
		DocumentURL:   r.SupportingDocumentURL,
		AdminNotes:    r.AdminNotes,
	}
}

func damageRow(d model.DamageReport) DamageRow {
	return DamageRow{
		ReportID:    d.ReportID,
		TenantID:    d.TenantID,
		RoomNumber:  d.RoomNumber,
		Description: d.Summary(),
		Cost:        Cost(d.Cost()),
		ReportedAt:  parse.Date(d.ReportedAt),
		DocumentURL: d.DocumentURL,
	}
}

// AdminExitRows renders the admin exit request table.
func AdminExitRows(reqs []model.ExitRequest) List[ExitRow] {
	return newList(reqs, NoExitRequests, func(_ int, r model.ExitRequest) ExitRow {
		return exitRow(r, AdminBadge, parse.DateTime)
	})
}

// AdminDamageRows renders the admin damage report table.
func AdminDamageRows(reports []model.DamageReport) List[DamageRow] {
	return newList(reports, NoDamageReports, func(_ int, d model.DamageReport) DamageRow {
		return damageRow(d)
	})
}

// DeskExitRows renders the front desk exit request list.
func DeskExitRows(reqs []model.ExitRequest) List[ExitRow] {
	return newList(reqs, NoExitRequests, func(_ int, r model.ExitRequest) ExitRow {
		return exitRow(r, DeskPill, parse.Date)
	})
}

// DeskDamageRows renders the front desk damage report list.
func DeskDamageRows(reports []model.DamageReport) List[DamageRow] {
	return newList(reports, NoDamageReports, func(_ int, d model.DamageReport) DamageRow {
		return damageRow(d)
	})
}

// TenantRequestRows renders a tenant's own request cards.
func TenantRequestRows(reqs []model.ExitRequest) List[ExitRow] {
	return newList(reqs, NoTenantRequests, func(_ int, r model.ExitRequest) ExitRow {
		return exitRow(r, TenantText, parse.DateTime)
	})
}

// ApprovedExitRows renders the landlord's approved exit cards, numbered from 1.
func ApprovedExitRows(exits []model.ApprovedExit) List[ApprovedExitRow] {
	return newList(exits, NoApprovedExits, func(i int, e model.ApprovedExit) ApprovedExitRow {
		return ApprovedExitRow{
			Label:      fmt.Sprintf("Exit %d", i+1),
			Name:       e.Name,
			RoomNumber: e.RoomNumber,
			ExitDate:   e.ExitDate,
		}
	})
}

// RoomHistoryRows renders the landlord's room history table.
func RoomHistoryRows(entries []model.RoomHistoryEntry) List[model.RoomHistoryEntry] {
	return newList(entries, NoRoomHistory, func(_ int, e model.RoomHistoryEntry) model.RoomHistoryEntry {
		return e
	})
}

// MoveEventRows renders the landlord's move timeline.
func MoveEventRows(events []model.MoveEvent) List[model.MoveEvent] {
	return newList(events, NoMoveEvents, func(_ int, e model.MoveEvent) model.MoveEvent {
		return e
	})
}

// ChecklistText joins checklist items, or returns "N/A" when there are none.
func ChecklistText(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}

// Truncate shortens s to n runes followed by "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Cost formats a repair estimate in rupees.
func Cost(v float64) string {
	return "₹" + pricing.Format(v)
}
