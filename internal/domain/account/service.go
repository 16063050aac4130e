package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/remed/remed/internal/platform/auth"
	"github.com/remed/remed/internal/platform/db"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

var validUserTypes = map[string]bool{
	auth.RolePatient: true, auth.RoleFamily: true, auth.RoleNurse: true,
}

type Service struct {
	repo Repository
	jwt  *auth.JWTService
	tx   db.TxRunner
}

func NewService(repo Repository, jwt *auth.JWTService, tx db.TxRunner) *Service {
	return &Service{repo: repo, jwt: jwt, tx: tx}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Password          string  `json:"password"`
	ContactNumber     *string `json:"contact_number"`
	UserType          string  `json:"user_type"`
	HealthCondition   string  `json:"health_condition"`
	RelationToPatient string  `json:"relation_to_patient"`
	AssignedHospital  string  `json:"assigned_hospital"`
}

// Register creates a user plus the role-specific detail row in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if !validUserTypes[in.UserType] {
		return nil, fmt.Errorf("invalid user type: %s", in.UserType)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  hash,
		ContactNumber: in.ContactNumber,
		UserType:      in.UserType,
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return err
		}
		switch in.UserType {
		case auth.RolePatient:
			return s.repo.CreatePatient(ctx, user.ID, in.HealthCondition)
		case auth.RoleFamily:
			relation := in.RelationToPatient
			if relation == "" {
				relation = "Not specified"
			}
			return s.repo.CreateFamily(ctx, user.ID, relation)
		case auth.RoleNurse:
			hospital := in.AssignedHospital
			if hospital == "" {
				hospital = "Not specified"
			}
			return s.repo.CreateNurse(ctx, user.ID, hospital)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Profile, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return "", nil, err
	}

	profile, err := s.repo.GetProfile(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// CurrentUser returns the full profile for an authenticated user.
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

// ProfileUpdate carries a profile update request. The role-specific field is
// applied only when it matches the caller's user type.
type ProfileUpdate struct {
	Name              string  `json:"name"`
	ContactNumber     *string `json:"contact_number"`
	HealthCondition   string  `json:"health_condition"`
	RelationToPatient string  `json:"relation_to_patient"`
	AssignedHospital  string  `json:"assigned_hospital"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, userType string, in ProfileUpdate) error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}

	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateUser(ctx, userID, in.Name, in.ContactNumber); err != nil {
			return err
		}
		switch {
		case userType == auth.RolePatient && in.HealthCondition != "":
			return s.repo.UpdatePatientDetail(ctx, userID, in.HealthCondition)
		case userType == auth.RoleFamily && in.RelationToPatient != "":
			return s.repo.UpdateFamilyDetail(ctx, userID, in.RelationToPatient)
		case userType == auth.RoleNurse && in.AssignedHospital != "":
			return s.repo.UpdateNurseDetail(ctx, userID, in.AssignedHospital)
		}
		return nil
	})
}

// SearchPatient finds a patient by exact email for a caretaker to link.
// Patients already linked to the caller are rejected.
func (s *Service) SearchPatient(ctx context.Context, caretakerID uuid.UUID, email string) (*PatientSummary, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	patient, err := s.repo.FindPatientByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	linked, err := s.repo.LinkExists(ctx, caretakerID, patient.ID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, ErrAlreadyLinked
	}
	return patient, nil
}

// LinkPatient attaches a patient to the calling caretaker.
func (s *Service) LinkPatient(ctx context.Context, caretakerID, patientID uuid.UUID) error {
	exists, err := s.repo.PatientExists(ctx, patientID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	linked, err := s.repo.LinkExists(ctx, caretakerID, patientID)
	if err != nil {
		return err
	}
	if linked {
		return ErrAlreadyLinked
	}
	return s.repo.CreateLink(ctx, caretakerID, patientID)
}

func (s *Service) ListPatients(ctx context.Context, caretakerID uuid.UUID) ([]*PatientSummary, error) {
	return s.repo.ListPatients(ctx, caretakerID)
}

func (s *Service) ListCaretakers(ctx context.Context, patientID uuid.UUID) (*Caretakers, error) {
	return s.repo.ListCaretakers(ctx, patientID)
}
