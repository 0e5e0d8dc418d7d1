package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rollbook/internal/store"
)

// Repository persists attendance records. Queries are written with ?
// placeholders and rebound for the active driver.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored record, or nil when the key has never been written.
func (r *Repository) Get(ctx context.Context, studentID, date string) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`
		SELECT student_id, date, status, reason, justified
		FROM attendance
		WHERE student_id = ? AND date = ?
	`), studentID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, store.MapError(err, "student_id")
	}
	return &rec, nil
}

// Upsert writes rec in a single statement keyed by (student_id, date).
// The caller is responsible for normalising rec first.
func (r *Repository) Upsert(ctx context.Context, rec Record) error {
	justified := 0
	if rec.Justified {
		justified = 1
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO attendance (student_id, date, status, reason, justified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (student_id, date) DO UPDATE SET
			status = excluded.status,
			reason = excluded.reason,
			justified = excluded.justified
	`), rec.StudentID, rec.Date, string(rec.Status), rec.Reason, justified)
	return store.MapError(err, "student_id")
}

// History returns every stored record for a student, most recent first.
func (r *Repository) History(ctx context.Context, studentID string) ([]Record, error) {
	var records []Record
	err := r.db.SelectContext(ctx, &records, r.db.Rebind(`
		SELECT student_id, date, status, reason, justified
		FROM attendance
		WHERE student_id = ?
		ORDER BY date DESC
	`), studentID)
	if err != nil {
		return nil, store.MapError(err, "student_id")
	}
	return records, nil
}
