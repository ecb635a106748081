package form

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/pricing"
)

// ExitRequestForm is submitted from the tenant page and the front desk.
type ExitRequestForm struct {
	TenantID   string   `form:"tenant_id" validate:"required"`
	Name       string   `form:"name" validate:"required"`
	RoomNumber string   `form:"room_number" validate:"required"`
	ExitReason string   `form:"exit_reason" validate:"required"`
	Email      string   `form:"email" validate:"required,email"`
	ExitDate   string   `form:"exit_date" validate:"required,datetime=2006-01-02"`
	Checklist  []string `form:"moveout_checklist"`

	Document *multipart.FileHeader `validate:"-"`
}

// ParseExitRequest reads and validates the exit request form.
func ParseExitRequest(c *Collector) (*ExitRequestForm, error) {
	f := &ExitRequestForm{
		TenantID:   c.Value("tenant_id"),
		Name:       c.Value("name"),
		RoomNumber: c.Value("room_number"),
		ExitReason: c.Value("exit_reason"),
		Email:      c.Value("email"),
		ExitDate:   c.Value("exit_date"),
		Checklist:  c.Checked("moveout_checklist"),
		Document:   c.File("supporting_document"),
	}
	if err := errOrNil(check(f)); err != nil {
		return nil, err
	}
	return f, nil
}

// Request converts the form into the submission payload. The returned closer
// releases the uploaded file and is never nil.
func (f *ExitRequestForm) Request() (model.NewExitRequest, io.Closer, error) {
	req := model.NewExitRequest{
		TenantID:         f.TenantID,
		Name:             f.Name,
		RoomNumber:       f.RoomNumber,
		ExitReason:       f.ExitReason,
		Email:            f.Email,
		ExitDate:         f.ExitDate,
		MoveoutChecklist: f.Checklist,
	}
	upload, closer, err := OpenUpload(f.Document)
	if err != nil {
		return req, closer, err
	}
	req.Document = upload
	return req, closer, nil
}

// DeskDamageForm is the front desk damage form with a free-form amount.
type DeskDamageForm struct {
	TenantID    string `form:"tenant_id" validate:"required"`
	RoomNumber  string `form:"room_number"`
	Description string `form:"description" validate:"required"`
	Amount      string `form:"amount" validate:"required"`

	Cost float64
}

// ParseDeskDamage reads the desk damage form. An amount that does not parse as
// a finite number is a validation error.
func ParseDeskDamage(c *Collector) (*DeskDamageForm, error) {
	f := &DeskDamageForm{
		TenantID:    c.Value("tenant_id"),
		RoomNumber:  c.Value("room_number"),
		Description: c.Value("description"),
		Amount:      c.Value("amount"),
	}
	ve := check(f)
	if f.Amount != "" {
		cost, err := parseAmount(f.Amount)
		if err != nil {
			if ve == nil {
				ve = &ValidationError{}
			}
			ve.Add("amount", "Must be a number")
		}
		f.Cost = cost
	}
	if err := errOrNil(ve); err != nil {
		return nil, err
	}
	if f.RoomNumber == "" {
		f.RoomNumber = "N/A"
	}
	return f, nil
}

// ItemDamageForm is the damage page form where cost comes from checked items.
type ItemDamageForm struct {
	TenantID    string   `form:"tenant_id" validate:"required"`
	RoomNumber  string   `form:"room_number" validate:"required"`
	Description string   `form:"description" validate:"required"`
	Items       []string `form:"items" validate:"min=1"`

	Total float64
}

// ParseItemDamage reads the item damage form and computes the estimate from the
// checked items. Any total sent by the browser is ignored.
func ParseItemDamage(c *Collector) (*ItemDamageForm, error) {
	f := &ItemDamageForm{
		TenantID:    c.Value("tenant_id"),
		RoomNumber:  c.Value("room_number"),
		Description: c.Value("description"),
		Items:       c.Checked("items"),
	}
	f.Total = pricing.Total(f.Items)
	ve := check(f)
	if len(f.Items) > 0 && f.Total <= 0 {
		if ve == nil {
			ve = &ValidationError{}
		}
		ve.Add("items", "Select at least one item")
	}
	if err := errOrNil(ve); err != nil {
		return nil, err
	}
	return f, nil
}

// Report converts the form into the upstream multipart payload.
func (f *ItemDamageForm) Report() model.ItemDamageReport {
	return model.ItemDamageReport{
		TenantID:      f.TenantID,
		RoomNumber:    f.RoomNumber,
		Description:   f.Description,
		Items:         f.Items,
		EstimatedCost: f.Total,
	}
}

// StatusForm selects a new status for one exit request.
type StatusForm struct {
	RequestID string           `form:"request_id" validate:"required"`
	NewStatus model.ExitStatus `form:"new_status" validate:"required"`
}

// ParseStatus reads a row action from a list container. Row buttons submit
// decision=<request_id>|<status>; an empty status is taken from the row's
// status_<request_id> select. Plain request_id/new_status fields are accepted too.
func ParseStatus(c *Collector, allowed []model.ExitStatus) (*StatusForm, error) {
	f := &StatusForm{
		RequestID: c.Value("request_id"),
		NewStatus: model.ExitStatus(c.Value("new_status")),
	}
	if decision := c.Value("decision"); decision != "" {
		id, status := decision, ""
		if i := strings.LastIndex(decision, "|"); i >= 0 {
			id, status = strings.TrimSpace(decision[:i]), strings.TrimSpace(decision[i+1:])
		}
		f.RequestID = id
		f.NewStatus = model.ExitStatus(status)
	}
	if f.NewStatus == "" && f.RequestID != "" {
		f.NewStatus = model.ExitStatus(c.Value("status_" + f.RequestID))
	}
	ve := check(f)
	if f.NewStatus != "" && !contains(allowed, f.NewStatus) {
		if ve == nil {
			ve = &ValidationError{}
		}
		ve.Add("new_status", "Invalid value")
	}
	if err := errOrNil(ve); err != nil {
		return nil, err
	}
	return f, nil
}

// LookupForm asks for the records of one tenant.
type LookupForm struct {
	TenantID string `form:"tenant_id" validate:"required"`
}

// ParseLookup reads the tenant lookup form.
func ParseLookup(c *Collector) (*LookupForm, error) {
	f := &LookupForm{TenantID: c.Value("tenant_id")}
	if err := errOrNil(check(f)); err != nil {
		return nil, err
	}
	return f, nil
}

// LoginForm carries the credentials forwarded to the upstream login.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ParseLogin reads the login form. The password is not trimmed.
func ParseLogin(c *Collector) (*LoginForm, error) {
	f := &LoginForm{
		Username: c.Value("username"),
		Password: c.values.Get("password"),
	}
	if err := errOrNil(check(f)); err != nil {
		return nil, err
	}
	return f, nil
}

// ExitFieldsForm edits the admin-managed fields of an exit request. Blank text
// fields are left untouched upstream.
type ExitFieldsForm struct {
	RequestID  string   `form:"request_id" validate:"required"`
	AdminNotes string   `form:"admin_notes" validate:"max=2000"`
	ExitReason string   `form:"exit_reason" validate:"max=500"`
	Checklist  []string `form:"moveout_checklist"`
}

// ParseExitFields reads the admin field edit form.
func ParseExitFields(c *Collector) (*ExitFieldsForm, error) {
	f := &ExitFieldsForm{
		RequestID:  c.Value("request_id"),
		AdminNotes: c.Value("admin_notes"),
		ExitReason: c.Value("exit_reason"),
		Checklist:  c.Checked("moveout_checklist"),
	}
	if err := errOrNil(check(f)); err != nil {
		return nil, err
	}
	return f, nil
}

// Update converts the form into the upstream patch body.
func (f *ExitFieldsForm) Update() model.ExitFieldsUpdate {
	u := model.ExitFieldsUpdate{RequestID: f.RequestID, MoveoutChecklist: f.Checklist}
	if f.AdminNotes != "" {
		u.AdminNotes = &f.AdminNotes
	}
	if f.ExitReason != "" {
		u.ExitReason = &f.ExitReason
	}
	return u
}

// ParseFilter reads the admin list filters. Unknown statuses are dropped.
func ParseFilter(c *Collector) model.ExitRequestFilter {
	f := model.ExitRequestFilter{
		Status:     c.Value("status"),
		TenantID:   c.Value("tenant_id"),
		RoomNumber: c.Value("room_number"),
	}
	if f.Status != "" && !contains(model.AdminStatuses, model.ExitStatus(f.Status)) {
		f.Status = ""
	}
	return f
}

// OpenUpload opens an uploaded file for forwarding. A nil header yields a nil
// upload and a no-op closer.
func OpenUpload(fh *multipart.FileHeader) (*model.Upload, io.Closer, error) {
	if fh == nil {
		return nil, nopCloser{}, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, nopCloser{}, fmt.Errorf("failed to open uploaded file %q: %w", fh.Filename, err)
	}
	return &model.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        file,
	}, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseAmount(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount %q is not finite", s)
	}
	return f, nil
}

func contains(set []model.ExitStatus, s model.ExitStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
