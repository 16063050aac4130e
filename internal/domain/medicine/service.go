package medicine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/platform/auth"
	"github.com/remed/remed/internal/platform/db"
)

const (
	reportMedicationLog   = "Medication Log"
	reportInventoryUpdate = "Inventory Update"
)

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func parseDate(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

// FrequencyInput is one dose slot in an add/update request.
type FrequencyInput struct {
	Time           string           `json:"time"`
	Day            string           `json:"day"`
	CustomSound    *string          `json:"custom_sound"`
	FlexibleWindow *int             `json:"flexible_window"`
	Description    *string          `json:"description"`
	Period         *string          `json:"period"`
	Options        *ReminderOptions `json:"options"`
}

// AddInput carries a new cabinet entry.
type AddInput struct {
	PatientID       uuid.UUID        `json:"patient_id"`
	MedicineName    string           `json:"medicine_name"`
	GenericName     *string          `json:"generic_name"`
	Dosage          *string          `json:"dosage"`
	Description     *string          `json:"description"`
	ExpirationDate  *string          `json:"expiration_date"`
	Category        *string          `json:"category"`
	Form            *string          `json:"form"`
	Color           *string          `json:"color"`
	Shape           *string          `json:"shape"`
	ImagePath       *string          `json:"image_path"`
	AsNeeded        bool             `json:"as_needed"`
	Notes           *string          `json:"notes"`
	InitialQuantity int              `json:"initial_quantity"`
	Frequencies     []FrequencyInput `json:"frequencies"`
}

// normalizeOptions fills reminder option defaults the same way the clients do.
func normalizeOptions(o *ReminderOptions) *ReminderOptions {
	if o == nil {
		return nil
	}
	if o.AlarmSound == "" {
		o.AlarmSound = "default"
	}
	if o.SnoozeInterval == 0 {
		o.SnoozeInterval = 5
	}
	return o
}

func buildFrequency(medicineID uuid.UUID, in FrequencyInput) *Frequency {
	return &Frequency{
		MedicineID:     medicineID,
		Time:           in.Time,
		Day:            in.Day,
		Status:         "Active",
		CustomSound:    in.CustomSound,
		FlexibleWindow: in.FlexibleWindow,
		Description:    in.Description,
		Period:         in.Period,
		Options:        normalizeOptions(in.Options),
	}
}

// Add creates a cabinet entry with its vault row, dose schedule and an audit
// report, all in one transaction.
func (s *Service) Add(ctx context.Context, loggedBy uuid.UUID, in AddInput) (uuid.UUID, error) {
	if in.MedicineName == "" {
		return uuid.Nil, fmt.Errorf("medicine_name is required")
	}
	if in.PatientID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("patient_id is required")
	}
	if in.InitialQuantity < 0 {
		return uuid.Nil, fmt.Errorf("initial_quantity cannot be negative")
	}
	for _, f := range in.Frequencies {
		if f.Time == "" || f.Day == "" {
			return uuid.Nil, fmt.Errorf("each frequency needs time and day")
		}
	}

	m := &Medicine{
		PatientID:    in.PatientID,
		LoggedByID:   loggedBy,
		MedicineName: in.MedicineName,
		GenericName:  in.GenericName,
		Dosage:       in.Dosage,
		Description:  in.Description,
		Category:     in.Category,
		Form:         in.Form,
		Color:        in.Color,
		Shape:        in.Shape,
		ImagePath:    in.ImagePath,
		AsNeeded:     in.AsNeeded,
		Notes:        in.Notes,
	}
	if in.ExpirationDate != nil {
		t, err := parseDate(*in.ExpirationDate)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid expiration_date: %w", err)
		}
		m.ExpirationDate = t
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}
		if in.InitialQuantity > 0 {
			if err := s.repo.UpsertVault(ctx, m.ID, in.PatientID, loggedBy, in.InitialQuantity); err != nil {
				return err
			}
		}
		for _, fi := range in.Frequencies {
			if err := s.repo.InsertFrequency(ctx, buildFrequency(m.ID, fi)); err != nil {
				return err
			}
		}
		notes := fmt.Sprintf("Added new medicine: %s, Initial quantity: %d", in.MedicineName, in.InitialQuantity)
		return s.repo.InsertReport(ctx, reportMedicationLog, loggedBy, in.PatientID, notes)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

// List returns the patient's cabinet with inventory and schedules attached.
func (s *Service) List(ctx context.Context, patientID uuid.UUID) ([]*CabinetEntry, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// authorize allows the user who logged the medicine, or a nurse linked to the
// patient through a caretaker link.
func (s *Service) authorize(ctx context.Context, m *Medicine, callerID uuid.UUID, callerType string) error {
	if callerID == m.LoggedByID {
		return nil
	}
	if callerType == auth.RoleNurse {
		linked, err := s.repo.IsLinkedCaretaker(ctx, callerID, m.PatientID)
		if err != nil {
			return err
		}
		if linked {
			return nil
		}
	}
	return ErrForbidden
}

// UpdateInput carries a cabinet entry update. Frequencies and Quantity are
// optional: nil leaves the schedule / vault untouched.
type UpdateInput struct {
	MedicineName   string            `json:"medicine_name"`
	GenericName    *string           `json:"generic_name"`
	Dosage         *string           `json:"dosage"`
	Description    *string           `json:"description"`
	ExpirationDate *string           `json:"expiration_date"`
	Category       *string           `json:"category"`
	Form           *string           `json:"form"`
	Color          *string           `json:"color"`
	Shape          *string           `json:"shape"`
	ImagePath      *string           `json:"image_path"`
	AsNeeded       bool              `json:"as_needed"`
	Notes          *string           `json:"notes"`
	Frequencies    *[]FrequencyInput `json:"frequencies"`
	Quantity       *int              `json:"quantity"`
}

func (s *Service) Update(ctx context.Context, medicineID, callerID uuid.UUID, callerType string, in UpdateInput) error {
	if in.MedicineName == "" {
		return fmt.Errorf("medicine_name is required")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}

	m, err := s.repo.GetByID(ctx, medicineID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, m, callerID, callerType); err != nil {
		return err
	}

	m.MedicineName = in.MedicineName
	m.GenericName = in.GenericName
	m.Dosage = in.Dosage
	m.Description = in.Description
	m.Category = in.Category
	m.Form = in.Form
	m.Color = in.Color
	m.Shape = in.Shape
	m.ImagePath = in.ImagePath
	m.AsNeeded = in.AsNeeded
	m.Notes = in.Notes
	m.ExpirationDate = nil
	if in.ExpirationDate != nil {
		t, err := parseDate(*in.ExpirationDate)
		if err != nil {
			return fmt.Errorf("invalid expiration_date: %w", err)
		}
		m.ExpirationDate = t
	}

	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}

		if in.Frequencies != nil {
			if err := s.repo.DeleteFrequencies(ctx, medicineID); err != nil {
				return err
			}
			for _, fi := range *in.Frequencies {
				if err := s.repo.InsertFrequency(ctx, buildFrequency(medicineID, fi)); err != nil {
					return err
				}
			}
		}

		if in.Quantity != nil {
			if err := s.repo.UpsertVault(ctx, medicineID, m.PatientID, callerID, *in.Quantity); err != nil {
				return err
			}
			notes := fmt.Sprintf("Updated quantity for %s to %d", m.MedicineName, *in.Quantity)
			if err := s.repo.InsertReport(ctx, reportInventoryUpdate, callerID, m.PatientID, notes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a cabinet entry together with its schedule and vault row,
// leaving an audit report behind.
func (s *Service) Delete(ctx context.Context, medicineID, callerID uuid.UUID, callerType string) error {
	m, err := s.repo.GetByID(ctx, medicineID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, m, callerID, callerType); err != nil {
		return err
	}

	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteFrequencies(ctx, medicineID); err != nil {
			return err
		}
		if err := s.repo.DeleteVault(ctx, medicineID); err != nil {
			return err
		}
		notes := fmt.Sprintf("Removed medicine: %s", m.MedicineName)
		if err := s.repo.InsertReport(ctx, reportMedicationLog, callerID, m.PatientID, notes); err != nil {
			return err
		}
		return s.repo.Delete(ctx, medicineID)
	})
}
