package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/domain/medicine"
	"github.com/remed/remed/internal/platform/db"
)

const (
	reportMedicationLog   = "Medication Log"
	reportInventoryUpdate = "Inventory Update"
	reportReminderUpdate  = "Reminder Update"

	lowInventoryThreshold = 7
)

type Service struct {
	repo Repository
	tx   db.TxRunner
	now  func() time.Time
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx, now: time.Now}
}

// Today returns the patient's active reminders for the current weekday plus
// the daily ones, ordered by time.
func (s *Service) Today(ctx context.Context, patientID uuid.UUID) ([]*Reminder, error) {
	day := s.now().Weekday().String()
	return s.repo.ListForDay(ctx, patientID, day)
}

// All returns every reminder for the patient ordered by day and time.
func (s *Service) All(ctx context.Context, patientID uuid.UUID) ([]*Reminder, error) {
	return s.repo.ListAll(ctx, patientID)
}

// authorize allows the patient and any caretaker linked to them.
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

// Take marks a reminder as taken or skipped. Taking a dose decrements the
// vault by one piece (never below zero) and files inventory reports when the
// pre-decrement count crosses the low or empty thresholds.
func (s *Service) Take(ctx context.Context, frequencyID, callerID uuid.UUID, taken bool, notes string) error {
	ref, err := s.repo.GetFrequencyRef(ctx, frequencyID)
	if err != nil {
		return err
	}

	med, err := s.repo.GetMedicineRef(ctx, ref.MedicineID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, callerID, med.PatientID); err != nil {
		return err
	}

	return s.tx(ctx, func(ctx context.Context) error {
		if taken {
			vault, err := s.repo.GetVaultByMedicine(ctx, med.MedicineID)
			if err != nil {
				return err
			}
			if vault != nil {
				if vault.Pieces > 0 {
					if err := s.repo.DecrementVault(ctx, vault.ID); err != nil {
						return err
					}
				}
				if vault.Pieces <= lowInventoryThreshold && vault.Pieces > 0 {
					msg := fmt.Sprintf("Low inventory for %s: %d remaining", med.MedicineName, vault.Pieces-1)
					if err := s.repo.InsertReport(ctx, reportInventoryUpdate, callerID, med.PatientID, msg); err != nil {
						return err
					}
				}
				if vault.Pieces <= 1 {
					msg := fmt.Sprintf("Empty inventory for %s. Please refill.", med.MedicineName)
					if err := s.repo.InsertReport(ctx, reportInventoryUpdate, callerID, med.PatientID, msg); err != nil {
						return err
					}
				}
			}
		}

		action := "Skipped"
		if taken {
			action = "Taken"
		}
		if notes == "" {
			notes = "No notes"
		}
		msg := fmt.Sprintf("%s %s: %s", action, med.MedicineName, notes)
		return s.repo.InsertReport(ctx, reportMedicationLog, callerID, med.PatientID, msg)
	})
}

// ReplaceSchedule swaps out every dose slot of a medicine for the given set.
func (s *Service) ReplaceSchedule(ctx context.Context, medicineID, callerID uuid.UUID, slots []ScheduleInput) error {
	if slots == nil {
		return fmt.Errorf("frequencies array is required")
	}
	for _, slot := range slots {
		if slot.Time == "" || slot.Day == "" {
			return fmt.Errorf("each frequency needs time and day")
		}
	}

	med, err := s.repo.GetMedicineRef(ctx, medicineID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, callerID, med.PatientID); err != nil {
		return err
	}

	for i := range slots {
		slots[i].Options = normalizeOptions(slots[i].Options)
	}

	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.ReplaceFrequencies(ctx, medicineID, slots); err != nil {
			return err
		}
		msg := fmt.Sprintf("Updated reminder schedule for %s", med.MedicineName)
		return s.repo.InsertReport(ctx, reportReminderUpdate, callerID, med.PatientID, msg)
	})
}

// normalizeOptions always materializes the options payload with defaults, so
// every stored slot carries a full settings object.
func normalizeOptions(o *medicine.ReminderOptions) *medicine.ReminderOptions {
	if o == nil {
		o = &medicine.ReminderOptions{}
	}
	if o.AlarmSound == "" {
		o.AlarmSound = "default"
	}
	if o.SnoozeInterval == 0 {
		o.SnoozeInterval = 5
	}
	return o
}
