package reminder

import (
	"github.com/google/uuid"

	"github.com/remed/remed/internal/domain/medicine"
)

// Reminder is a dose slot joined to its medicine and remaining inventory.
type Reminder struct {
	FrequencyID  uuid.UUID `json:"frequency_id"`
	Time         string    `json:"time"`
	Day          string    `json:"day"`
	Status       string    `json:"status"`
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	GenericName  *string   `json:"generic_name,omitempty"`
	Dosage       *string   `json:"dosage,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Quantity     *int      `json:"quantity,omitempty"`
}

// frequencyRef ties a frequency to its owning medicine for authorization.
type frequencyRef struct {
	FrequencyID  uuid.UUID
	MedicineID   uuid.UUID
	PatientID    uuid.UUID
	MedicineName string
}

// vaultState is the inventory snapshot read before a decrement.
type vaultState struct {
	ID     uuid.UUID
	Pieces int
}

// ScheduleInput is one dose slot in a schedule replacement request.
type ScheduleInput struct {
	Time    string                    `json:"time"`
	Day     string                    `json:"day"`
	Options *medicine.ReminderOptions `json:"options"`
}
