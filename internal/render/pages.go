// Package render turns upstream records into HTML pages and list fragments.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/pricing"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	PageLogin     = "login"
	PageLoggedOut = "logged_out"
	PageAdmin     = "admin"
	PageLandlord  = "landlord"
	PageTenant    = "tenant"
	PageDesk      = "desk"
	PageDamage    = "damage"

	FragmentAdminExits     = "admin_exit_list"
	FragmentAdminDamages   = "admin_damage_list"
	FragmentTenantRequests = "tenant_requests"
	FragmentDeskLookup     = "desk_lookup"
	FragmentNotice         = "notice"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Notice is a blocking banner shown above the page content.
type Notice struct {
	Level   string
	Title   string
	Text    string
	Details []string
}

// Page carries what every page layout needs.
type Page struct {
	Title  string
	Role   string
	Notice *Notice
	Back   string
}

// AdminPage is the admin dashboard.
type AdminPage struct {
	Page
	Filter    model.ExitRequestFilter
	Summary   *model.DashboardSummary
	Exits     List[ExitRow]
	Damages   List[DamageRow]
	Statuses  []model.ExitStatus
	Checklist []string
}

// LandlordPage holds the three landlord lists.
type LandlordPage struct {
	Page
	ApprovedExits List[ApprovedExitRow]
	RoomHistory   List[model.RoomHistoryEntry]
	MoveTimeline  List[model.MoveEvent]
}

// TenantPage is the tenant's exit form and request cards.
type TenantPage struct {
	Page
	TenantID  string
	Checklist []string
	Requests  *List[ExitRow]
}

// DeskPage is the front desk: exit form, damage form and tenant lookup.
type DeskPage struct {
	Page
	Checklist []string
	TenantID  string
	Lookup    *DeskLookup
}

// DeskLookup holds both lists of one tenant lookup.
type DeskLookup struct {
	TenantID string
	Exits    List[ExitRow]
	Damages  List[DamageRow]
	Actions  []model.ExitStatus
}

// DamagePage is the item checklist damage form.
type DamagePage struct {
	Page
	Items    []pricing.Item
	Checked  map[string]bool
	Total    string
	Form     map[string]string
	ReportID string
}

// LoggedOutPage confirms a logout and forwards to the login page.
type LoggedOutPage struct {
	Page
	Message  string
	Redirect string
}

// LoginPage is the sign-in form.
type LoginPage struct {
	Page
	Username string
}

// MoveoutChecklist is the fixed set of checklist items offered on exit forms.
var MoveoutChecklist = []string{
	"Keys returned",
	"Room cleaned",
	"Utilities settled",
	"Furniture inspected",
	"Forwarding address provided",
}

var funcs = template.FuncMap{
	"price": func(it pricing.Item) string { return pricing.Format(it.Price) },
	"isStatus": func(a, b model.ExitStatus) bool {
		return a == b
	},
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict needs key/value pairs")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
	"statusName": func(s model.ExitStatus) string {
		if s == "" {
			return "Unknown"
		}
		return string(s)
	},
}

// Templates parses every embedded page and fragment.
func Templates() (*template.Template, error) {
	t, err := template.New("portal").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// MustTemplates is Templates for program start-up.
func MustTemplates() *template.Template {
	t, err := Templates()
	if err != nil {
		panic(err)
	}
	return t
}

// Execute renders one named template into a string.
func Execute(t *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
