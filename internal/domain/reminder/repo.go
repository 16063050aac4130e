package reminder

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("reminder not found")
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrForbidden        = errors.New("not authorized for this reminder")
)

type Repository interface {
	ListForDay(ctx context.Context, patientID uuid.UUID, day string) ([]*Reminder, error)
	ListAll(ctx context.Context, patientID uuid.UUID) ([]*Reminder, error)

	GetFrequencyRef(ctx context.Context, frequencyID uuid.UUID) (*frequencyRef, error)
	GetMedicineRef(ctx context.Context, medicineID uuid.UUID) (*frequencyRef, error)
	GetVaultByMedicine(ctx context.Context, medicineID uuid.UUID) (*vaultState, error)
	DecrementVault(ctx context.Context, vaultID uuid.UUID) error

	ReplaceFrequencies(ctx context.Context, medicineID uuid.UUID, slots []ScheduleInput) error

	InsertReport(ctx context.Context, reportType string, creatorID, patientID uuid.UUID, notes string) error
	IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error)
}
