package vault

import (
	"time"

	"github.com/google/uuid"
)

// Item is a vault row joined with its medicine.
type Item struct {
	ID           uuid.UUID `json:"id"`
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Dosage       *string   `json:"dosage"`
	Category     *string   `json:"category"`
	Form         *string   `json:"form"`
	PatientID    uuid.UUID `json:"patient_id"`
	Pieces       int       `json:"pieces"`
	LastUpdated  time.Time `json:"last_updated"`
}
