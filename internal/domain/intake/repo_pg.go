package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

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

func (r *repoPG) GetFrequencyMedicine(ctx context.Context, frequencyID uuid.UUID) (uuid.UUID, error) {
	var medicineID uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT medicine_id FROM frequencies WHERE id = $1`, frequencyID).Scan(&medicineID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrFrequencyNotFound
	}
	return medicineID, err
}

func (r *repoPG) InsertIntake(ctx context.Context, in *Intake) error {
	in.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO med_intakes (id, frequency_id, status, taken_at, scheduled_for, notes)
		VALUES ($1, $2, $3, NOW(), $4, $5)
		RETURNING taken_at`,
		in.ID, in.FrequencyID, in.Status, in.ScheduledFor, in.Notes).Scan(&in.TakenAt)
}

func (r *repoPG) SetFrequencyStatus(ctx context.Context, frequencyID uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE frequencies SET status = $2, updated_at = NOW() WHERE id = $1`, frequencyID, status)
	return err
}

func (r *repoPG) DecrementVaultClamped(ctx context.Context, medicineID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE vaults
		SET pieces = GREATEST(pieces - 1, 0), last_updated = NOW()
		WHERE medicine_id = $1`, medicineID)
	return err
}

func (r *repoPG) AdherenceByMedicine(ctx context.Context, patientID uuid.UUID, start, end *time.Time) ([]*MedicineAdherence, error) {
	// window bounds go into the join so medicines without intakes still appear
	join := `LEFT JOIN med_intakes mi ON mi.frequency_id = f.id`
	args := []interface{}{patientID}
	if start != nil {
		args = append(args, *start)
		join += fmt.Sprintf(" AND mi.scheduled_for >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		join += fmt.Sprintf(" AND mi.scheduled_for <= $%d", len(args))
	}

	query := `
		SELECT m.id, m.medicine_name, m.dosage,
			COUNT(DISTINCT f.id) AS total_frequencies,
			COUNT(DISTINCT mi.id) AS total_recorded,
			COUNT(DISTINCT mi.id) FILTER (WHERE mi.status = 'Taken') AS total_taken,
			COUNT(DISTINCT mi.id) FILTER (WHERE mi.status = 'Skipped') AS total_skipped,
			COUNT(DISTINCT mi.id) FILTER (WHERE mi.status = 'Missed') AS total_missed,
			CASE WHEN COUNT(DISTINCT mi.id) > 0
				THEN ROUND(COUNT(DISTINCT mi.id) FILTER (WHERE mi.status = 'Taken')::numeric
					/ COUNT(DISTINCT mi.id) * 100, 2)
				ELSE 0
			END::float8 AS adherence_percentage
		FROM med_cabinet m
		JOIN frequencies f ON f.medicine_id = m.id
		` + join + `
		WHERE m.patient_id = $1
		GROUP BY m.id, m.medicine_name, m.dosage
		ORDER BY m.medicine_name`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*MedicineAdherence{}
	for rows.Next() {
		var a MedicineAdherence
		if err := rows.Scan(&a.MedicineID, &a.MedicineName, &a.Dosage,
			&a.TotalFrequencies, &a.TotalRecorded, &a.TotalTaken,
			&a.TotalSkipped, &a.TotalMissed, &a.AdherencePercentage); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *repoPG) UpsertAdherenceStat(ctx context.Context, patientID, medicineID uuid.UUID, start, end time.Time, scheduled, taken int, percentage float64) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO adherence_stats (id, patient_id, medicine_id, period_start, period_end,
			total_scheduled, total_taken, adherence_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (patient_id, medicine_id, period_start, period_end) DO UPDATE
		SET total_scheduled = EXCLUDED.total_scheduled,
			total_taken = EXCLUDED.total_taken,
			adherence_percentage = EXCLUDED.adherence_percentage,
			computed_at = NOW()`,
		uuid.New(), patientID, medicineID, start, end, scheduled, taken, percentage)
	return err
}

// dayStatusCTE classifies each day with recorded intakes as perfect when every
// scheduled medicine has at least one taken dose.
const dayStatusCTE = `
	day_status AS (
		SELECT DATE(mi.scheduled_for) AS day,
			COUNT(DISTINCT f.medicine_id) =
				COUNT(DISTINCT f.medicine_id) FILTER (WHERE mi.status = 'Taken') AS perfect
		FROM med_intakes mi
		JOIN frequencies f ON f.id = mi.frequency_id
		JOIN med_cabinet m ON m.id = f.medicine_id
		WHERE m.patient_id = $1 AND mi.scheduled_for IS NOT NULL
		GROUP BY DATE(mi.scheduled_for)
	)`

func (r *repoPG) CurrentStreak(ctx context.Context, patientID uuid.UUID) (int, error) {
	var streak int
	err := r.conn(ctx).QueryRow(ctx, `
		WITH `+dayStatusCTE+`,
		ordered AS (
			SELECT day, perfect,
				SUM(CASE WHEN perfect THEN 0 ELSE 1 END)
					OVER (ORDER BY day DESC) AS breaks
			FROM day_status
		)
		SELECT COUNT(*) FROM ordered WHERE breaks = 0 AND perfect`, patientID).Scan(&streak)
	return streak, err
}

func (r *repoPG) LongestStreak(ctx context.Context, patientID uuid.UUID) (int, error) {
	var streak int
	err := r.conn(ctx).QueryRow(ctx, `
		WITH `+dayStatusCTE+`,
		grouped AS (
			SELECT day, perfect,
				SUM(CASE WHEN perfect THEN 0 ELSE 1 END)
					OVER (ORDER BY day ROWS UNBOUNDED PRECEDING) AS grp
			FROM day_status
		)
		SELECT COALESCE(MAX(run), 0) FROM (
			SELECT grp, COUNT(*) AS run
			FROM grouped
			WHERE perfect
			GROUP BY grp
		) runs`, patientID).Scan(&streak)
	return streak, err
}

func (r *repoPG) History(ctx context.Context, patientID uuid.UUID, filter HistoryFilter, limit, offset int) ([]*HistoryEntry, int, error) {
	where := `m.patient_id = $1`
	args := []interface{}{patientID}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		where += fmt.Sprintf(" AND mi.scheduled_for >= $%d", len(args))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		where += fmt.Sprintf(" AND mi.scheduled_for <= $%d", len(args))
	}
	if filter.MedicineID != nil {
		args = append(args, *filter.MedicineID)
		where += fmt.Sprintf(" AND m.id = $%d", len(args))
	}

	base := `
		FROM med_intakes mi
		JOIN frequencies f ON f.id = mi.frequency_id
		JOIN med_cabinet m ON m.id = f.medicine_id
		WHERE ` + where

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `
		SELECT mi.id, mi.frequency_id, mi.status, mi.taken_at, mi.scheduled_for, mi.notes,
			m.id, m.medicine_name, m.dosage, m.category, m.form ` + base +
		fmt.Sprintf(` ORDER BY mi.scheduled_for DESC NULLS LAST LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []*HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.IntakeID, &e.FrequencyID, &e.Status, &e.TakenAt,
			&e.ScheduledFor, &e.Notes, &e.MedicineID, &e.MedicineName,
			&e.Dosage, &e.Category, &e.Form); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

func (r *repoPG) Missed(ctx context.Context, patientID uuid.UUID, days int) ([]*MissedMedicine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.id, m.medicine_name, m.dosage, m.category,
			COUNT(*) AS missed_count,
			MAX(mi.scheduled_for) AS last_missed
		FROM med_intakes mi
		JOIN frequencies f ON f.id = mi.frequency_id
		JOIN med_cabinet m ON m.id = f.medicine_id
		WHERE m.patient_id = $1
			AND mi.status = 'Missed'
			AND mi.scheduled_for >= CURRENT_DATE - make_interval(days => $2)
		GROUP BY m.id, m.medicine_name, m.dosage, m.category
		ORDER BY missed_count DESC`, patientID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missed := []*MissedMedicine{}
	for rows.Next() {
		var mm MissedMedicine
		if err := rows.Scan(&mm.MedicineID, &mm.MedicineName, &mm.Dosage, &mm.Category,
			&mm.MissedCount, &mm.LastMissed); err != nil {
			return nil, err
		}
		missed = append(missed, &mm)
	}
	return missed, rows.Err()
}
