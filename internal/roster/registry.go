package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rollbook/internal/apperror"
	"rollbook/internal/store"

	"github.com/jmoiron/sqlx"
)

// Registry persists the roster.
type Registry struct {
	db *sqlx.DB
}

// NewRegistry creates a registry over an open database.
func NewRegistry(db *sqlx.DB) *Registry {
	return &Registry{db: db}
}

// Sync inserts every seed entry or overwrites its name. Students missing
// from the seed are left alone. The whole seed is applied in one transaction.
func (r *Registry) Sync(ctx context.Context, seed []Student) error {
	if err := validateSeed(seed); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Unavailable(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, r.db.Rebind(`
		INSERT INTO students (student_id, name)
		VALUES (?, ?)
		ON CONFLICT (student_id) DO UPDATE SET name = excluded.name
	`))
	if err != nil {
		return apperror.Unavailable(err)
	}
	defer stmt.Close()

	for _, s := range seed {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name); err != nil {
			return store.MapError(err, "student_id")
		}
	}
	if err := tx.Commit(); err != nil {
		return apperror.Unavailable(err)
	}
	return nil
}

// List returns all students ordered by name, then id.
func (r *Registry) List(ctx context.Context) ([]Student, error) {
	var students []Student
	err := r.db.SelectContext(ctx, &students, `
		SELECT student_id, name FROM students
		ORDER BY name, student_id
	`)
	if err != nil {
		return nil, store.MapError(err, "student_id")
	}
	return students, nil
}

// Get returns a single student, or nil when the id is not on the roster.
func (r *Registry) Get(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT student_id, name FROM students WHERE student_id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, store.MapError(err, "student_id")
	}
	return &s, nil
}

func validateSeed(seed []Student) error {
	seen := make(map[string]struct{}, len(seed))
	for i, s := range seed {
		if s.ID == "" {
			return apperror.Constraint("student_id", fmt.Sprintf("seed entry %d has no id", i))
		}
		if s.Name == "" {
			return apperror.Constraint("name", fmt.Sprintf("seed entry %q has no name", s.ID))
		}
		if _, dup := seen[s.ID]; dup {
			return apperror.Constraint("student_id", fmt.Sprintf("seed lists %q twice", s.ID))
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
