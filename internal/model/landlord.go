package model

// ApprovedExit is a row of the landlord's approved exits list.
type ApprovedExit struct {
	Name       string `json:"name"`
	RoomNumber string `json:"room_number"`
	ExitDate   string `json:"exit_date"`
}

// RoomHistoryEntry is one tenancy of a room.
type RoomHistoryEntry struct {
	RoomNumber string `json:"room_number"`
	TenantName string `json:"tenant_name"`
	MoveIn     string `json:"move_in"`
	MoveOut    string `json:"move_out"`
}

// MoveEvent is an entry of the move-in/move-out timeline.
type MoveEvent struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// DashboardSummary holds the admin request counters.
type DashboardSummary struct {
	TotalRequests int `json:"total_requests"`
	Approved      int `json:"approved"`
	Pending       int `json:"pending"`
	Rejected      int `json:"rejected"`
}
