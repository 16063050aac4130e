package intake

import (
	"time"

	"github.com/google/uuid"
)

// Intake statuses.
const (
	StatusTaken   = "Taken"
	StatusMissed  = "Missed"
	StatusSkipped = "Skipped"
)

// Intake maps to the med_intakes table: one recorded dose event.
type Intake struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FrequencyID  uuid.UUID  `db:"frequency_id" json:"frequency_id"`
	Status       string     `db:"status" json:"status"`
	TakenAt      time.Time  `db:"taken_at" json:"taken_at"`
	ScheduledFor *time.Time `db:"scheduled_for" json:"scheduled_for,omitempty"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
}

// MedicineAdherence is the per-medicine adherence rollup.
type MedicineAdherence struct {
	MedicineID          uuid.UUID `json:"medicine_id"`
	MedicineName        string    `json:"medicine_name"`
	Dosage              *string   `json:"dosage,omitempty"`
	TotalFrequencies    int       `json:"total_frequencies"`
	TotalRecorded       int       `json:"total_recorded"`
	TotalTaken          int       `json:"total_taken"`
	TotalSkipped        int       `json:"total_skipped"`
	TotalMissed         int       `json:"total_missed"`
	AdherencePercentage float64   `json:"adherence_percentage"`
}

// OverallAdherence aggregates the per-medicine rollups.
type OverallAdherence struct {
	TotalMedicines      int `json:"total_medicines"`
	TotalTaken          int `json:"total_taken"`
	TotalRecorded       int `json:"total_recorded"`
	AdherencePercentage int `json:"adherence_percentage"`
}

// AdherenceSummary is the full adherence report for a patient.
type AdherenceSummary struct {
	Medicines []*MedicineAdherence `json:"medicines"`
	Overall   OverallAdherence     `json:"overall"`
}

// Streak reports consecutive perfect days. A day is perfect when every
// medicine scheduled that day has at least one taken dose.
type Streak struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// HistoryEntry is an intake joined to its medicine for timeline views.
type HistoryEntry struct {
	IntakeID     uuid.UUID  `json:"intake_id"`
	FrequencyID  uuid.UUID  `json:"frequency_id"`
	Status       string     `json:"status"`
	TakenAt      time.Time  `json:"taken_at"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	MedicineID   uuid.UUID  `json:"medicine_id"`
	MedicineName string     `json:"medicine_name"`
	Dosage       *string    `json:"dosage,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Form         *string    `json:"form,omitempty"`
}

// MissedMedicine groups recent missed doses per medicine.
type MissedMedicine struct {
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Dosage       *string   `json:"dosage,omitempty"`
	Category     *string   `json:"category,omitempty"`
	MissedCount  int       `json:"missed_count"`
	LastMissed   time.Time `json:"last_missed"`
}

// HistoryFilter bounds a history query.
type HistoryFilter struct {
	Start      *time.Time
	End        *time.Time
	MedicineID *uuid.UUID
}
