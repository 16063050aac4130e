package account

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table.
type User struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	ContactNumber *string   `db:"contact_number" json:"contact_number,omitempty"`
	UserType      string    `db:"user_type" json:"user_type"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is a user joined to the role-specific detail row.
type Profile struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	ContactNumber     *string   `json:"contact_number,omitempty"`
	UserType          string    `json:"user_type"`
	HealthCondition   *string   `json:"health_condition,omitempty"`
	RelationToPatient *string   `json:"relation_to_patient,omitempty"`
	AssignedHospital  *string   `json:"assigned_hospital,omitempty"`
}

// PatientSummary is the shape returned by caretaker-facing patient queries.
type PatientSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ContactNumber   *string   `json:"contact_number,omitempty"`
	HealthCondition string    `json:"health_condition"`
}

// Caretaker is a family member or nurse linked to a patient.
type Caretaker struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	ContactNumber     *string   `json:"contact_number,omitempty"`
	Type              string    `json:"type"`
	RelationToPatient *string   `json:"relation_to_patient,omitempty"`
	AssignedHospital  *string   `json:"assigned_hospital,omitempty"`
}

// Caretakers groups a patient's caretakers by role.
type Caretakers struct {
	FamilyMembers []*Caretaker `json:"family_members"`
	Nurses        []*Caretaker `json:"nurses"`
}
