package vault

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("vault item not found")
	ErrForbidden = errors.New("not allowed to manage this vault")
)

type Repository interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Item, error)
	GetItem(ctx context.Context, vaultID uuid.UUID) (*Item, error)
	SetPieces(ctx context.Context, vaultID uuid.UUID, pieces int) error
	Low(ctx context.Context, patientID uuid.UUID, threshold int) ([]*Item, error)

	InsertReport(ctx context.Context, reportType string, creatorID, patientID uuid.UUID, notes string) error
	IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error)
}
