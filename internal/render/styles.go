package render

import "tenant-exit-portal/internal/model"

// StyleTable maps a status to CSS classes with a fallback for anything unknown.
type StyleTable struct {
	styles   map[model.ExitStatus]string
	fallback string
}

// For returns the classes for s.
func (t StyleTable) For(s model.ExitStatus) string {
	if c, ok := t.styles[s]; ok {
		return c
	}
	return t.fallback
}

var (
	// AdminBadge colours the status badge in the admin table.
	AdminBadge = StyleTable{
		styles: map[model.ExitStatus]string{
			model.StatusPending:  "bg-yellow-100 text-yellow-700",
			model.StatusApproved: "bg-green-100 text-green-700",
			model.StatusRejected: "bg-red-100 text-red-700",
			model.StatusInReview: "bg-blue-100 text-blue-700",
		},
		fallback: "bg-gray-100 text-gray-700",
	}

	// DeskPill colours the status pill on the front desk.
	DeskPill = StyleTable{
		styles: map[model.ExitStatus]string{
			model.StatusPending:     "status-pending",
			model.StatusApproved:    "status-approved",
			model.StatusNeedsAction: "status-needs-action",
		},
		fallback: "status-pending",
	}

	// TenantText colours the status line of a tenant's request card.
	TenantText = StyleTable{
		styles: map[model.ExitStatus]string{
			model.StatusApproved: "text-green-600",
			model.StatusRejected: "text-red-600",
		},
		fallback: "text-yellow-600",
	}
)
