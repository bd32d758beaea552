package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// MovieRepo reads the `movies` table. Movies are owned by another module;
// this service only needs to know whether one exists.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Exists reports whether a movie with the given id is present.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("movie %d exists: %w", id, err)
	}
	return true, nil
}

// Upsert stores movies by id, replacing title and year of existing rows.
// Used by the seed command.
func (r *MovieRepo) Upsert(ctx context.Context, movies ...model.Movie) error {
	const q = `INSERT INTO movies (id, title, year) VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE title = VALUES(title), year = VALUES(year)`
	for _, m := range movies {
		if _, err := r.db.ExecContext(ctx, q, m.ID, m.Title, m.Year); err != nil {
			return fmt.Errorf("upsert movie %d: %w", m.ID, err)
		}
	}
	return nil
}
