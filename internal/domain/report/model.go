package report

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeMedicationLog   = "Medication Log"
	TypeInventoryUpdate = "Inventory Update"
	TypeReminderUpdate  = "Reminder Update"
	TypeHealthUpdate    = "Health Update"
)

// Report is an activity log entry joined with its creator.
type Report struct {
	ID              uuid.UUID `json:"id"`
	ReportType      string    `json:"report_type"`
	CreatorID       uuid.UUID `json:"creator_id"`
	CreatorName     string    `json:"creator_name"`
	CreatorUserType string    `json:"creator_user_type"`
	PatientID       uuid.UUID `json:"patient_id"`
	Notes           string    `json:"notes"`
	DateCreated     time.Time `json:"date_created"`
}

// TypeSummary aggregates one report type for a patient.
type TypeSummary struct {
	ReportType string    `json:"report_type"`
	Count      int       `json:"count"`
	LatestNote string    `json:"latest_note"`
	LatestAt   time.Time `json:"latest_at"`
}
