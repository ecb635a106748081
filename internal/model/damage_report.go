package model

import "io"

// DamageReport is an immutable record of damage found in a room.
type DamageReport struct {
	ReportID          string  `json:"report_id"`
	TenantID          string  `json:"tenant_id"`
	RoomNumber        string  `json:"room_number"`
	DamageDescription string  `json:"damage_description,omitempty"`
	Description       string  `json:"description,omitempty"`
	EstimatedCost     *Amount `json:"estimated_cost,omitempty"`
	ReportedAt        string  `json:"reported_at,omitempty"`
	DocumentURL       string  `json:"document_url,omitempty"`
}

// Summary returns the damage description, falling back to the plain description.
func (d DamageReport) Summary() string {
	if d.DamageDescription != "" {
		return d.DamageDescription
	}
	if d.Description != "" {
		return d.Description
	}
	return "N/A"
}

// Cost returns the estimated cost or zero when the upstream omitted it.
func (d DamageReport) Cost() float64 {
	if d.EstimatedCost == nil {
		return 0
	}
	return float64(*d.EstimatedCost)
}

// NewDamageReport is the JSON body sent by the front desk damage form.
type NewDamageReport struct {
	ReportID      string  `json:"report_id"`
	TenantID      string  `json:"tenant_id"`
	RoomNumber    string  `json:"room_number"`
	Description   string  `json:"description"`
	EstimatedCost float64 `json:"estimated_cost"`
	ReportedAt    string  `json:"reported_at"`
}

// ItemDamageReport is the multipart body sent by the item checklist damage form.
type ItemDamageReport struct {
	TenantID      string
	RoomNumber    string
	Description   string
	Items         []string
	EstimatedCost float64
}

// Upload is a file part forwarded to the upstream API untouched.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
