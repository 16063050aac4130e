package reminder

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

func scanReminders(rows pgx.Rows, withQuantity bool) ([]*Reminder, error) {
	defer rows.Close()

	reminders := []*Reminder{}
	for rows.Next() {
		var rem Reminder
		var err error
		if withQuantity {
			err = rows.Scan(&rem.FrequencyID, &rem.Time, &rem.Day, &rem.Status,
				&rem.MedicineID, &rem.MedicineName, &rem.GenericName, &rem.Dosage,
				&rem.Description, &rem.Quantity)
		} else {
			err = rows.Scan(&rem.FrequencyID, &rem.Time, &rem.Day, &rem.Status,
				&rem.MedicineID, &rem.MedicineName, &rem.GenericName, &rem.Dosage,
				&rem.Description)
		}
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, &rem)
	}
	return reminders, rows.Err()
}

func (r *repoPG) ListForDay(ctx context.Context, patientID uuid.UUID, day string) ([]*Reminder, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT f.id, f.time::text, f.day, f.status,
			m.id, m.medicine_name, m.generic_name, m.dosage, m.description,
			v.pieces
		FROM frequencies f
		JOIN med_cabinet m ON m.id = f.medicine_id
		LEFT JOIN vaults v ON v.medicine_id = m.id
		WHERE m.patient_id = $1 AND (f.day = $2 OR f.day = 'Daily') AND f.status = 'Active'
		ORDER BY f.time`, patientID, day)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows, true)
}

func (r *repoPG) ListAll(ctx context.Context, patientID uuid.UUID) ([]*Reminder, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT f.id, f.time::text, f.day, f.status,
			m.id, m.medicine_name, m.generic_name, m.dosage, m.description
		FROM frequencies f
		JOIN med_cabinet m ON m.id = f.medicine_id
		WHERE m.patient_id = $1
		ORDER BY f.day, f.time`, patientID)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows, false)
}

func (r *repoPG) GetFrequencyRef(ctx context.Context, frequencyID uuid.UUID) (*frequencyRef, error) {
	var ref frequencyRef
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT f.id, m.id, m.patient_id, m.medicine_name
		FROM frequencies f
		JOIN med_cabinet m ON m.id = f.medicine_id
		WHERE f.id = $1`, frequencyID).
		Scan(&ref.FrequencyID, &ref.MedicineID, &ref.PatientID, &ref.MedicineName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repoPG) GetMedicineRef(ctx context.Context, medicineID uuid.UUID) (*frequencyRef, error) {
	var ref frequencyRef
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, medicine_name FROM med_cabinet WHERE id = $1`, medicineID).
		Scan(&ref.MedicineID, &ref.PatientID, &ref.MedicineName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repoPG) GetVaultByMedicine(ctx context.Context, medicineID uuid.UUID) (*vaultState, error) {
	var v vaultState
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, pieces FROM vaults WHERE medicine_id = $1`, medicineID).
		Scan(&v.ID, &v.Pieces)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repoPG) DecrementVault(ctx context.Context, vaultID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE vaults SET pieces = pieces - 1, last_updated = NOW()
		WHERE id = $1 AND pieces > 0`, vaultID)
	return err
}

func (r *repoPG) ReplaceFrequencies(ctx context.Context, medicineID uuid.UUID, slots []ScheduleInput) error {
	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM frequencies WHERE medicine_id = $1`, medicineID); err != nil {
		return err
	}
	for _, slot := range slots {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO frequencies (id, medicine_id, time, day, status, options)
			VALUES ($1, $2, $3::time, $4, 'Active', $5)`,
			uuid.New(), medicineID, slot.Time, slot.Day, slot.Options)
		if err != nil {
			return err
		}
	}
	return nil
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
