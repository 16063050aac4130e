package medicine

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("medicine not found")
	ErrForbidden = errors.New("not authorized for this medicine")
)

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CabinetEntry, error)

	InsertFrequency(ctx context.Context, f *Frequency) error
	ListFrequencies(ctx context.Context, medicineID uuid.UUID) ([]*Frequency, error)
	DeleteFrequencies(ctx context.Context, medicineID uuid.UUID) error

	UpsertVault(ctx context.Context, medicineID, patientID, createdBy uuid.UUID, pieces int) error
	DeleteVault(ctx context.Context, medicineID uuid.UUID) error

	InsertReport(ctx context.Context, reportType string, creatorID, patientID uuid.UUID, notes string) error
	IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error)
}
