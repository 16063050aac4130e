package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrForbidden = errors.New("not allowed to view these reports")

type Repository interface {
	Insert(ctx context.Context, r *Report) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, reportType *string, limit, offset int) ([]*Report, int, error)
	Summary(ctx context.Context, patientID uuid.UUID) ([]*TypeSummary, error)
	IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error)
}
