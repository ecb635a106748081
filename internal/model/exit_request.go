package model

import "net/url"

// ExitStatus is the review state of an exit request as reported by the upstream API.
// Values outside the known set are kept as-is.
type ExitStatus string

const (
	StatusPending     ExitStatus = "Pending"
	StatusApproved    ExitStatus = "Approved"
	StatusRejected    ExitStatus = "Rejected"
	StatusInReview    ExitStatus = "InReview"
	StatusNeedsAction ExitStatus = "Needs Action"
)

// AdminStatuses are the statuses an admin can pick for an exit request.
var AdminStatuses = []ExitStatus{StatusPending, StatusApproved, StatusInReview, StatusRejected}

// DeskStatuses are the actions offered on the front desk.
var DeskStatuses = []ExitStatus{StatusApproved, StatusNeedsAction}

// ExitRequest is a tenant's move-out request.
type ExitRequest struct {
	RequestID             string     `json:"request_id"`
	TenantID              string     `json:"tenant_id"`
	Name                  string     `json:"name"`
	RoomNumber            string     `json:"room_number"`
	ExitReason            string     `json:"exit_reason"`
	Email                 string     `json:"email,omitempty"`
	ExitDate              string     `json:"exit_date,omitempty"`
	Status                ExitStatus `json:"request_status"`
	MoveoutChecklist      []string   `json:"moveout_checklist"`
	SubmittedAt           string     `json:"submitted_at"`
	SupportingDocumentURL string     `json:"supporting_document_url,omitempty"`
	AdminNotes            string     `json:"admin_notes,omitempty"`
}

// ExitRequestFilter narrows the admin exit request list. Empty fields are not sent.
type ExitRequestFilter struct {
	Status     string
	TenantID   string
	RoomNumber string
}

// IsZero reports whether no filter field is set.
func (f ExitRequestFilter) IsZero() bool {
	return f.Status == "" && f.TenantID == "" && f.RoomNumber == ""
}

// Query encodes the set fields as status, tenant_id and room_number parameters.
func (f ExitRequestFilter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.TenantID != "" {
		q.Set("tenant_id", f.TenantID)
	}
	if f.RoomNumber != "" {
		q.Set("room_number", f.RoomNumber)
	}
	return q
}

// ExitFieldsUpdate carries the admin-editable fields of an exit request.
// Nil fields are left untouched upstream.
type ExitFieldsUpdate struct {
	RequestID        string   `json:"request_id"`
	AdminNotes       *string  `json:"admin_notes,omitempty"`
	ExitReason       *string  `json:"exit_reason,omitempty"`
	MoveoutChecklist []string `json:"moveout_checklist,omitempty"`
}

// NewExitRequest is the submission payload of the exit request forms.
type NewExitRequest struct {
	TenantID         string
	Name             string
	RoomNumber       string
	ExitReason       string
	Email            string
	ExitDate         string
	MoveoutChecklist []string
	Document         *Upload
}

// SubmitResult is the upstream acknowledgement of a submission.
type SubmitResult struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	ReportID  string `json:"report_id,omitempty"`
}
