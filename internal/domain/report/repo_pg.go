package report

import (
	"context"
	"fmt"

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

func (r *repoPG) Insert(ctx context.Context, rep *Report) error {
	rep.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO reports (id, report_type, creator_id, patient_id, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date_created`,
		rep.ID, rep.ReportType, rep.CreatorID, rep.PatientID, rep.Notes).Scan(&rep.DateCreated)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, reportType *string, limit, offset int) ([]*Report, int, error) {
	where := `r.patient_id = $1`
	args := []interface{}{patientID}
	if reportType != nil {
		args = append(args, *reportType)
		where += fmt.Sprintf(" AND r.report_type = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM reports r WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `
		SELECT r.id, r.report_type, r.creator_id, u.name, u.user_type,
			r.patient_id, r.notes, r.date_created
		FROM reports r
		JOIN users u ON u.id = r.creator_id
		WHERE ` + where +
		fmt.Sprintf(` ORDER BY r.date_created DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reports := []*Report{}
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.ReportType, &rep.CreatorID, &rep.CreatorName,
			&rep.CreatorUserType, &rep.PatientID, &rep.Notes, &rep.DateCreated); err != nil {
			return nil, 0, err
		}
		reports = append(reports, &rep)
	}
	return reports, total, rows.Err()
}

func (r *repoPG) Summary(ctx context.Context, patientID uuid.UUID) ([]*TypeSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT ON (report_type)
			report_type,
			COUNT(*) OVER (PARTITION BY report_type) AS count,
			notes, date_created
		FROM reports
		WHERE patient_id = $1
		ORDER BY report_type, date_created DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*TypeSummary{}
	for rows.Next() {
		var s TypeSummary
		if err := rows.Scan(&s.ReportType, &s.Count, &s.LatestNote, &s.LatestAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
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
