package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/remed/remed/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userCols = `id, name, email, password_hash, contact_number, user_type, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ContactNumber,
		&u.UserType, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repoPG) CreateUser(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, contact_number, user_type)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.ContactNumber, u.UserType)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) CreatePatient(ctx context.Context, userID uuid.UUID, healthCondition string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO patients (user_id, health_condition) VALUES ($1, $2)`, userID, healthCondition)
	return err
}

func (r *repoPG) CreateFamily(ctx context.Context, userID uuid.UUID, relationToPatient string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO families (user_id, relation_to_patient) VALUES ($1, $2)`, userID, relationToPatient)
	return err
}

func (r *repoPG) CreateNurse(ctx context.Context, userID uuid.UUID, assignedHospital string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO nurses (user_id, assigned_hospital) VALUES ($1, $2)`, userID, assignedHospital)
	return err
}

func (r *repoPG) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *repoPG) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repoPG) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.contact_number, u.user_type,
			p.health_condition, f.relation_to_patient, n.assigned_hospital
		FROM users u
		LEFT JOIN patients p ON p.user_id = u.id
		LEFT JOIN families f ON f.user_id = u.id
		LEFT JOIN nurses n ON n.user_id = u.id
		WHERE u.id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.ContactNumber, &p.UserType,
			&p.HealthCondition, &p.RelationToPatient, &p.AssignedHospital)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) UpdateUser(ctx context.Context, id uuid.UUID, name string, contactNumber *string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET name = $2, contact_number = $3, updated_at = NOW() WHERE id = $1`,
		id, name, contactNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdatePatientDetail(ctx context.Context, userID uuid.UUID, healthCondition string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET health_condition = $2 WHERE user_id = $1`, userID, healthCondition)
	return err
}

func (r *repoPG) UpdateFamilyDetail(ctx context.Context, userID uuid.UUID, relationToPatient string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE families SET relation_to_patient = $2 WHERE user_id = $1`, userID, relationToPatient)
	return err
}

func (r *repoPG) UpdateNurseDetail(ctx context.Context, userID uuid.UUID, assignedHospital string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE nurses SET assigned_hospital = $2 WHERE user_id = $1`, userID, assignedHospital)
	return err
}

func (r *repoPG) FindPatientByEmail(ctx context.Context, email string) (*PatientSummary, error) {
	var p PatientSummary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.contact_number, p.health_condition
		FROM users u
		JOIN patients p ON p.user_id = u.id
		WHERE u.email = $1 AND u.user_type = 'Patient'`, email).
		Scan(&p.ID, &p.Name, &p.Email, &p.ContactNumber, &p.HealthCondition)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patients WHERE user_id = $1)`, patientID).Scan(&exists)
	return exists, err
}

func (r *repoPG) LinkExists(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM caretaker_patients WHERE caretaker_id = $1 AND patient_id = $2)`,
		caretakerID, patientID).Scan(&exists)
	return exists, err
}

func (r *repoPG) CreateLink(ctx context.Context, caretakerID, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO caretaker_patients (caretaker_id, patient_id) VALUES ($1, $2)`,
		caretakerID, patientID)
	if isUniqueViolation(err) {
		return ErrAlreadyLinked
	}
	return err
}

func (r *repoPG) ListPatients(ctx context.Context, caretakerID uuid.UUID) ([]*PatientSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT u.id, u.name, u.email, u.contact_number, p.health_condition
		FROM users u
		JOIN patients p ON p.user_id = u.id
		JOIN caretaker_patients cp ON cp.patient_id = p.user_id
		WHERE cp.caretaker_id = $1
		ORDER BY u.name`, caretakerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*PatientSummary
	for rows.Next() {
		var p PatientSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.ContactNumber, &p.HealthCondition); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (r *repoPG) ListCaretakers(ctx context.Context, patientID uuid.UUID) (*Caretakers, error) {
	result := &Caretakers{
		FamilyMembers: []*Caretaker{},
		Nurses:        []*Caretaker{},
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT u.id, u.name, u.email, u.contact_number, u.user_type,
			f.relation_to_patient, n.assigned_hospital
		FROM users u
		JOIN caretaker_patients cp ON cp.caretaker_id = u.id
		LEFT JOIN families f ON f.user_id = u.id
		LEFT JOIN nurses n ON n.user_id = u.id
		WHERE cp.patient_id = $1
		ORDER BY u.name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c Caretaker
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ContactNumber, &c.Type,
			&c.RelationToPatient, &c.AssignedHospital); err != nil {
			return nil, err
		}
		switch c.Type {
		case "Family":
			result.FamilyMembers = append(result.FamilyMembers, &c)
		case "Nurse":
			result.Nurses = append(result.Nurses, &c)
		}
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
