// Package repository contains data access logic for screening domain operations.
// Repositories are thin columnar read/write surfaces over MySQL; business
// rules live in the service package.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

// screeningColumns maps schema field names to table columns.
var screeningColumns = map[string]string{
	"id":       "id",
	"movieId":  "movie_id",
	"date":     "date",
	"time":     "time",
	"capacity": "capacity",
}

// screeningSelect is the projected column list, in schema.Fields order.
var screeningSelect = projection(schema.Fields, screeningColumns)

// projection joins the columns for fields in order. It panics when the
// schema names a field the table does not map, so the two cannot drift.
func projection(fields []string, columns map[string]string) string {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		c, ok := columns[f]
		if !ok {
			panic(fmt.Sprintf("repository: schema field %q has no column", f))
		}
		cols = append(cols, c)
	}
	return strings.Join(cols, ", ")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanScreening reads one row projected with screeningSelect.
func scanScreening(rs rowScanner) (model.Screening, error) {
	var (
		s    model.Screening
		date time.Time
	)
	dest := make([]any, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		switch f {
		case "id":
			dest = append(dest, &s.ID)
		case "movieId":
			dest = append(dest, &s.MovieID)
		case "date":
			dest = append(dest, &date)
		case "time":
			dest = append(dest, &s.Time)
		case "capacity":
			dest = append(dest, &s.Capacity)
		}
	}
	if err := rs.Scan(dest...); err != nil {
		return model.Screening{}, err
	}
	s.Date = date.Format(schema.DateLayout)
	return s, nil
}

// ScreeningRepo manages persistence for screenings.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{db: db}
}

// Insert stores one or more screenings in a single transaction and returns
// the stored rows, generated ids included, in input order.
func (r *ScreeningRepo) Insert(ctx context.Context, records ...model.NewScreening) (out []model.Screening, err error) {
	if len(records) == 0 {
		return []model.Screening{}, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert screenings: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO screenings (movie_id, date, time, capacity) VALUES (?, ?, ?, ?)`
	sel := `SELECT ` + screeningSelect + ` FROM screenings WHERE id = ?`
	out = make([]model.Screening, 0, len(records))
	for _, rec := range records {
		res, err := tx.ExecContext(ctx, q, rec.MovieID, rec.Date, rec.Time, rec.Capacity)
		if err != nil {
			return nil, fmt.Errorf("insert screening: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert screening: %w", err)
		}
		// Read back the stored row so callers see what the DB holds.
		s, err := scanScreening(tx.QueryRowContext(ctx, sel, id))
		if err != nil {
			return nil, fmt.Errorf("read inserted screening %d: %w", id, err)
		}
		out = append(out, s)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert screenings: %w", err)
	}
	return out, nil
}

// GetByID retrieves a screening by its ID. It returns nil and no error
// when no row matches.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	q := `SELECT ` + screeningSelect + ` FROM screenings WHERE id = ?`
	s, err := scanScreening(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get screening %d: %w", id, err)
	}
	return &s, nil
}

// GetAll returns every screening ordered by id. When no screenings exist
// it returns an empty slice and nil error.
func (r *ScreeningRepo) GetAll(ctx context.Context) ([]model.Screening, error) {
	q := `SELECT ` + screeningSelect + ` FROM screenings ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}
	defer rows.Close()
	result := []model.Screening{}
	for rows.Next() {
		s, err := scanScreening(rows)
		if err != nil {
			return nil, fmt.Errorf("scan screening: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}
	return result, nil
}

// DeleteByID removes a screening and returns the row as it was. MySQL has
// no DELETE ... RETURNING, so the row is read and deleted inside one
// transaction. It returns nil and no error when no row matches. Nothing
// else is deleted.
func (r *ScreeningRepo) DeleteByID(ctx context.Context, id uint64) (deleted *model.Screening, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete screening: %w", err)
	}
	defer func() {
		if err != nil || deleted == nil {
			_ = tx.Rollback()
		}
	}()

	q := `SELECT ` + screeningSelect + ` FROM screenings WHERE id = ? FOR UPDATE`
	s, err := scanScreening(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get screening %d: %w", id, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM screenings WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete screening %d: %w", id, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete screening %d: %w", id, err)
	}
	return &s, nil
}
