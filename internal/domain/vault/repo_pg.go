package vault

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

const itemCols = `v.id, v.medicine_id, m.medicine_name, m.dosage, m.category, m.form,
	m.patient_id, v.pieces, v.last_updated`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.MedicineID, &it.MedicineName, &it.Dosage, &it.Category,
		&it.Form, &it.PatientID, &it.Pieces, &it.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+`
		FROM vaults v
		JOIN med_cabinet m ON m.id = v.medicine_id
		WHERE m.patient_id = $1
		ORDER BY v.last_updated DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) GetItem(ctx context.Context, vaultID uuid.UUID) (*Item, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx, `
		SELECT `+itemCols+`
		FROM vaults v
		JOIN med_cabinet m ON m.id = v.medicine_id
		WHERE v.id = $1`, vaultID))
}

func (r *repoPG) SetPieces(ctx context.Context, vaultID uuid.UUID, pieces int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE vaults SET pieces = $2, last_updated = NOW() WHERE id = $1`, vaultID, pieces)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Low(ctx context.Context, patientID uuid.UUID, threshold int) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+`
		FROM vaults v
		JOIN med_cabinet m ON m.id = v.medicine_id
		WHERE m.patient_id = $1 AND v.pieces <= $2
		ORDER BY v.pieces ASC`, patientID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
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
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM caretaker_patients
			WHERE caretaker_id = $1 AND patient_id = $2
		)`, caretakerID, patientID).Scan(&linked)
	return linked, err
}
