package model

import "time"

// SubmissionKind tells which form produced a journal entry.
type SubmissionKind string

const (
	SubmissionExit   SubmissionKind = "exit"
	SubmissionDamage SubmissionKind = "damage"
)

// Submission is a local journal row for a form accepted by the upstream API.
type Submission struct {
	ID            int64          `gorm:"primaryKey"`
	Kind          SubmissionKind `gorm:"size:16;not null;index"`
	RecordID      string         `gorm:"size:64;index"`
	TenantID      string         `gorm:"size:64;not null;index"`
	RoomNumber    string         `gorm:"size:32"`
	EstimatedCost float64
	SubmittedAt   time.Time `gorm:"not null"`
}

// StatusChange records a status update made through the portal.
type StatusChange struct {
	ID        int64      `gorm:"primaryKey"`
	RequestID string     `gorm:"size:64;not null;index"`
	TenantID  string     `gorm:"size:64;index"`
	NewStatus ExitStatus `gorm:"size:32;not null"`
	Source    string     `gorm:"size:16;not null"`
	ChangedAt time.Time  `gorm:"not null"`
}
