package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrAlreadyLinked = errors.New("patient is already linked to this caretaker")
)

type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	CreatePatient(ctx context.Context, userID uuid.UUID, healthCondition string) error
	CreateFamily(ctx context.Context, userID uuid.UUID, relationToPatient string) error
	CreateNurse(ctx context.Context, userID uuid.UUID, assignedHospital string) error

	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateUser(ctx context.Context, id uuid.UUID, name string, contactNumber *string) error
	UpdatePatientDetail(ctx context.Context, userID uuid.UUID, healthCondition string) error
	UpdateFamilyDetail(ctx context.Context, userID uuid.UUID, relationToPatient string) error
	UpdateNurseDetail(ctx context.Context, userID uuid.UUID, assignedHospital string) error

	FindPatientByEmail(ctx context.Context, email string) (*PatientSummary, error)
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)
	LinkExists(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error)
	CreateLink(ctx context.Context, caretakerID, patientID uuid.UUID) error
	ListPatients(ctx context.Context, caretakerID uuid.UUID) ([]*PatientSummary, error)
	ListCaretakers(ctx context.Context, patientID uuid.UUID) (*Caretakers, error)
}
