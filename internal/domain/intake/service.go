package intake

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/platform/db"
)

var validStatuses = map[string]bool{
	StatusTaken: true, StatusMissed: true, StatusSkipped: true,
}

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

// RecordInput carries an intake event.
type RecordInput struct {
	FrequencyID  uuid.UUID  `json:"frequency_id"`
	Status       string     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	Notes        *string    `json:"notes"`
}

// Record stores a dose event, resets the frequency status and, for a taken
// dose, decrements the vault (clamped at zero) — all in one transaction.
func (s *Service) Record(ctx context.Context, in RecordInput) (*Intake, error) {
	if !validStatuses[in.Status] {
		return nil, fmt.Errorf("invalid status: %s", in.Status)
	}

	medicineID, err := s.repo.GetFrequencyMedicine(ctx, in.FrequencyID)
	if err != nil {
		return nil, err
	}

	rec := &Intake{
		FrequencyID:  in.FrequencyID,
		Status:       in.Status,
		ScheduledFor: in.ScheduledFor,
		Notes:        in.Notes,
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertIntake(ctx, rec); err != nil {
			return err
		}

		// a taken dose re-arms the reminder; missed/skipped keep their state
		freqStatus := in.Status
		if in.Status == StatusTaken {
			freqStatus = "Active"
		}
		if err := s.repo.SetFrequencyStatus(ctx, in.FrequencyID, freqStatus); err != nil {
			return err
		}

		if in.Status == StatusTaken {
			return s.repo.DecrementVaultClamped(ctx, medicineID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Adherence computes per-medicine and overall adherence for the window. When
// both bounds are given, the per-medicine rollups are also persisted to
// adherence_stats for later reporting.
func (s *Service) Adherence(ctx context.Context, patientID uuid.UUID, start, end *time.Time) (*AdherenceSummary, error) {
	medicines, err := s.repo.AdherenceByMedicine(ctx, patientID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &AdherenceSummary{Medicines: medicines}
	for _, m := range medicines {
		summary.Overall.TotalTaken += m.TotalTaken
		summary.Overall.TotalRecorded += m.TotalRecorded
	}
	summary.Overall.TotalMedicines = len(medicines)
	if summary.Overall.TotalRecorded > 0 {
		summary.Overall.AdherencePercentage = int(math.Round(
			float64(summary.Overall.TotalTaken) / float64(summary.Overall.TotalRecorded) * 100))
	}

	if start != nil && end != nil {
		for _, m := range medicines {
			pct := 0.0
			if m.TotalRecorded > 0 {
				pct = float64(m.TotalTaken) / float64(m.TotalRecorded) * 100
			}
			if err := s.repo.UpsertAdherenceStat(ctx, patientID, m.MedicineID,
				*start, *end, m.TotalRecorded, m.TotalTaken, pct); err != nil {
				return nil, err
			}
		}
	}

	return summary, nil
}

// Streaks returns the current and longest runs of perfect days.
func (s *Service) Streaks(ctx context.Context, patientID uuid.UUID) (*Streak, error) {
	current, err := s.repo.CurrentStreak(ctx, patientID)
	if err != nil {
		return nil, err
	}
	longest, err := s.repo.LongestStreak(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return &Streak{CurrentStreak: current, LongestStreak: longest}, nil
}

// History lists intake events newest first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID, filter HistoryFilter, limit, offset int) ([]*HistoryEntry, int, error) {
	return s.repo.History(ctx, patientID, filter, limit, offset)
}

// Missed groups missed doses per medicine over the trailing window.
func (s *Service) Missed(ctx context.Context, patientID uuid.UUID, days int) ([]*MissedMedicine, error) {
	if days <= 0 {
		days = 7
	}
	return s.repo.Missed(ctx, patientID, days)
}
