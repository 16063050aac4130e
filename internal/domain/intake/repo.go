package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrFrequencyNotFound = errors.New("reminder not found")

type Repository interface {
	GetFrequencyMedicine(ctx context.Context, frequencyID uuid.UUID) (medicineID uuid.UUID, err error)
	InsertIntake(ctx context.Context, in *Intake) error
	SetFrequencyStatus(ctx context.Context, frequencyID uuid.UUID, status string) error
	DecrementVaultClamped(ctx context.Context, medicineID uuid.UUID) error

	AdherenceByMedicine(ctx context.Context, patientID uuid.UUID, start, end *time.Time) ([]*MedicineAdherence, error)
	UpsertAdherenceStat(ctx context.Context, patientID, medicineID uuid.UUID, start, end time.Time, scheduled, taken int, percentage float64) error

	CurrentStreak(ctx context.Context, patientID uuid.UUID) (int, error)
	LongestStreak(ctx context.Context, patientID uuid.UUID) (int, error)

	History(ctx context.Context, patientID uuid.UUID, filter HistoryFilter, limit, offset int) ([]*HistoryEntry, int, error)
	Missed(ctx context.Context, patientID uuid.UUID, days int) ([]*MissedMedicine, error)
}
