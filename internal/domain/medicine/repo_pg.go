package medicine

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

const medCols = `id, patient_id, logged_by_id, medicine_name, generic_name, dosage,
	description, expiration_date, category, form, color, shape, image_path,
	as_needed, notes, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.PatientID, &m.LoggedByID, &m.MedicineName, &m.GenericName,
		&m.Dosage, &m.Description, &m.ExpirationDate, &m.Category, &m.Form,
		&m.Color, &m.Shape, &m.ImagePath, &m.AsNeeded, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO med_cabinet (id, patient_id, logged_by_id, medicine_name, generic_name,
			dosage, description, expiration_date, category, form, color, shape,
			image_path, as_needed, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		m.ID, m.PatientID, m.LoggedByID, m.MedicineName, m.GenericName,
		m.Dosage, m.Description, m.ExpirationDate, m.Category, m.Form,
		m.Color, m.Shape, m.ImagePath, m.AsNeeded, m.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medCols+` FROM med_cabinet WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medicine) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE med_cabinet SET medicine_name = $2, generic_name = $3, dosage = $4,
			description = $5, expiration_date = $6, category = $7, form = $8,
			color = $9, shape = $10, image_path = $11, as_needed = $12, notes = $13,
			updated_at = NOW()
		WHERE id = $1`,
		m.ID, m.MedicineName, m.GenericName, m.Dosage, m.Description, m.ExpirationDate,
		m.Category, m.Form, m.Color, m.Shape, m.ImagePath, m.AsNeeded, m.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM med_cabinet WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CabinetEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.id, m.patient_id, m.logged_by_id, m.medicine_name, m.generic_name,
			m.dosage, m.description, m.expiration_date, m.category, m.form,
			m.color, m.shape, m.image_path, m.as_needed, m.notes,
			m.created_at, m.updated_at,
			v.id, v.pieces
		FROM med_cabinet m
		LEFT JOIN vaults v ON v.medicine_id = m.id
		WHERE m.patient_id = $1
		ORDER BY m.medicine_name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*CabinetEntry
	for rows.Next() {
		var e CabinetEntry
		if err := rows.Scan(&e.ID, &e.PatientID, &e.LoggedByID, &e.MedicineName, &e.GenericName,
			&e.Dosage, &e.Description, &e.ExpirationDate, &e.Category, &e.Form,
			&e.Color, &e.Shape, &e.ImagePath, &e.AsNeeded, &e.Notes,
			&e.CreatedAt, &e.UpdatedAt,
			&e.VaultID, &e.Quantity); err != nil {
			return nil, err
		}
		e.Frequencies = []*Frequency{}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		freqs, err := r.ListFrequencies(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Frequencies = freqs
	}
	return entries, nil
}

func (r *repoPG) InsertFrequency(ctx context.Context, f *Frequency) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO frequencies (id, medicine_id, time, day, status, custom_sound,
			flexible_window, description, period, options)
		VALUES ($1, $2, $3::time, $4, $5, $6, $7, $8, $9, $10)`,
		f.ID, f.MedicineID, f.Time, f.Day, f.Status, f.CustomSound,
		f.FlexibleWindow, f.Description, f.Period, f.Options)
	return err
}

func (r *repoPG) ListFrequencies(ctx context.Context, medicineID uuid.UUID) ([]*Frequency, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, medicine_id, time::text, day, status, custom_sound,
			flexible_window, description, period, options
		FROM frequencies
		WHERE medicine_id = $1
		ORDER BY day, time`, medicineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	freqs := []*Frequency{}
	for rows.Next() {
		var f Frequency
		if err := rows.Scan(&f.ID, &f.MedicineID, &f.Time, &f.Day, &f.Status,
			&f.CustomSound, &f.FlexibleWindow, &f.Description, &f.Period, &f.Options); err != nil {
			return nil, err
		}
		freqs = append(freqs, &f)
	}
	return freqs, rows.Err()
}

func (r *repoPG) DeleteFrequencies(ctx context.Context, medicineID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM frequencies WHERE medicine_id = $1`, medicineID)
	return err
}

func (r *repoPG) UpsertVault(ctx context.Context, medicineID, patientID, createdBy uuid.UUID, pieces int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vaults (id, medicine_id, patient_id, created_by, pieces)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (medicine_id) DO UPDATE
		SET pieces = EXCLUDED.pieces, last_updated = NOW()`,
		uuid.New(), medicineID, patientID, createdBy, pieces)
	return err
}

func (r *repoPG) DeleteVault(ctx context.Context, medicineID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM vaults WHERE medicine_id = $1`, medicineID)
	return err
}

func (r *repoPG) InsertReport(ctx context.Context, reportType string, creatorID, patientID uuid.UUID, notes string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO reports (id, report_type, creator_id, patient_id, notes)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), reportType, creatorID, patientID, notes)
	return err
}

func (r *repoPG) IsLinkedCaretaker(ctx context.Context, caretakerID, patientID uuid.UUID) (bool, error) {
	var linked bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM caretaker_patients WHERE caretaker_id = $1 AND patient_id = $2)`,
		caretakerID, patientID).Scan(&linked)
	return linked, err
}
