package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Medicine maps to the med_cabinet table.
type Medicine struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	LoggedByID     uuid.UUID  `db:"logged_by_id" json:"logged_by_id"`
	MedicineName   string     `db:"medicine_name" json:"medicine_name"`
	GenericName    *string    `db:"generic_name" json:"generic_name,omitempty"`
	Dosage         *string    `db:"dosage" json:"dosage,omitempty"`
	Description    *string    `db:"description" json:"description,omitempty"`
	ExpirationDate *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`
	Category       *string    `db:"category" json:"category,omitempty"`
	Form           *string    `db:"form" json:"form,omitempty"`
	Color          *string    `db:"color" json:"color,omitempty"`
	Shape          *string    `db:"shape" json:"shape,omitempty"`
	ImagePath      *string    `db:"image_path" json:"image_path,omitempty"`
	AsNeeded       bool       `db:"as_needed" json:"as_needed"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// ReminderOptions is the jsonb payload attached to a frequency.
type ReminderOptions struct {
	AlarmSound     string `json:"alarm_sound"`
	SnoozeEnabled  bool   `json:"snooze_enabled"`
	SnoozeInterval int    `json:"snooze_interval"`
	Vibration      bool   `json:"vibration"`
	Critical       bool   `json:"critical"`
}

// Frequency maps to the frequencies table: one dose slot of a medicine.
type Frequency struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	MedicineID     uuid.UUID        `db:"medicine_id" json:"medicine_id"`
	Time           string           `db:"time" json:"time"`
	Day            string           `db:"day" json:"day"`
	Status         string           `db:"status" json:"status"`
	CustomSound    *string          `db:"custom_sound" json:"custom_sound,omitempty"`
	FlexibleWindow *int             `db:"flexible_window" json:"flexible_window,omitempty"`
	Description    *string          `db:"description" json:"description,omitempty"`
	Period         *string          `db:"period" json:"period,omitempty"`
	Options        *ReminderOptions `db:"options" json:"options,omitempty"`
}

// CabinetEntry is a medicine joined to its vault quantity and schedule, the
// shape returned by patient cabinet listings.
type CabinetEntry struct {
	Medicine
	VaultID     *uuid.UUID   `json:"vault_id,omitempty"`
	Quantity    *int         `json:"quantity,omitempty"`
	Frequencies []*Frequency `json:"frequencies"`
}
