package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validTypes = map[string]bool{
	TypeMedicationLog: true, TypeInventoryUpdate: true,
	TypeReminderUpdate: true, TypeHealthUpdate: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
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

// CreateInput carries a manually filed report.
type CreateInput struct {
	PatientID  uuid.UUID `json:"patient_id"`
	ReportType string    `json:"report_type"`
	Notes      string    `json:"notes"`
}

func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, in CreateInput) (*Report, error) {
	if !validTypes[in.ReportType] {
		return nil, fmt.Errorf("invalid report type: %s", in.ReportType)
	}
	if strings.TrimSpace(in.Notes) == "" {
		return nil, fmt.Errorf("notes are required")
	}
	if err := s.authorize(ctx, creatorID, in.PatientID); err != nil {
		return nil, err
	}

	rep := &Report{
		ReportType: in.ReportType,
		CreatorID:  creatorID,
		PatientID:  in.PatientID,
		Notes:      in.Notes,
	}
	if err := s.repo.Insert(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ListByPatient returns reports newest first, optionally filtered by type.
func (s *Service) ListByPatient(ctx context.Context, callerID, patientID uuid.UUID, reportType *string, limit, offset int) ([]*Report, int, error) {
	if reportType != nil && !validTypes[*reportType] {
		return nil, 0, fmt.Errorf("invalid report type: %s", *reportType)
	}
	if err := s.authorize(ctx, callerID, patientID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByPatient(ctx, patientID, reportType, limit, offset)
}

// Summary returns per-type counts with the latest entry of each type.
func (s *Service) Summary(ctx context.Context, callerID, patientID uuid.UUID) ([]*TypeSummary, error) {
	if err := s.authorize(ctx, callerID, patientID); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, patientID)
}
