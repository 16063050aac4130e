package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/platform/db"
)

const (
	reportInventoryUpdate = "Inventory Update"
	lowInventoryThreshold = 7
)

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) authorize(ctx context.Context, callerID, patientID uuid.UUID) error {
	if callerID == patientID {
		return nil
	}
	linked, err := s.repo.IsLinkedCaretaker(ctx, callerID, patientID)
	if err != nil {
		return err
	}
	if !linked {
		return ErrForbidden
	}
	return nil
}

// ListByPatient returns the patient's inventory, most recently touched first.
func (s *Service) ListByPatient(ctx context.Context, callerID, patientID uuid.UUID) ([]*Item, error) {
	if err := s.authorize(ctx, callerID, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// UpdateQuantity sets the piece count and files an inventory report noting the
// old and new values.
func (s *Service) UpdateQuantity(ctx context.Context, vaultID, callerID uuid.UUID, quantity int) (*Item, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must be non-negative")
	}

	item, err := s.repo.GetItem(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, callerID, item.PatientID); err != nil {
		return nil, err
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.SetPieces(ctx, vaultID, quantity); err != nil {
			return err
		}
		notes := fmt.Sprintf("Updated quantity for %s from %d to %d",
			item.MedicineName, item.Pieces, quantity)
		return s.repo.InsertReport(ctx, reportInventoryUpdate, callerID, item.PatientID, notes)
	})
	if err != nil {
		return nil, err
	}

	item.Pieces = quantity
	return item, nil
}

// Low lists items at or below the refill threshold, emptiest first.
func (s *Service) Low(ctx context.Context, callerID, patientID uuid.UUID) ([]*Item, error) {
	if err := s.authorize(ctx, callerID, patientID); err != nil {
		return nil, err
	}
	return s.repo.Low(ctx, patientID, lowInventoryThreshold)
}
