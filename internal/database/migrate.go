package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations create the tables this service reads and writes. Each statement
// is idempotent, so Migrate can run on every start.
var migrations = []struct {
	name string
	stmt string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
  id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  user_name  VARCHAR(25)     NOT NULL,
  role       VARCHAR(16)     NOT NULL,
  PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"movies", `CREATE TABLE IF NOT EXISTS movies (
  id     BIGINT UNSIGNED NOT NULL,
  title  VARCHAR(255)    NOT NULL,
  year   INT             NULL,
  PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"screenings", `CREATE TABLE IF NOT EXISTS screenings (
  id        BIGINT UNSIGNED  NOT NULL AUTO_INCREMENT,
  movie_id  BIGINT UNSIGNED  NOT NULL,
  date      DATE             NOT NULL,
  time      TIME             NOT NULL,
  capacity  TINYINT UNSIGNED NOT NULL,
  PRIMARY KEY (id),
  KEY idx_screenings_movie (movie_id),
  CONSTRAINT fk_screenings_movie FOREIGN KEY (movie_id) REFERENCES movies (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	// No foreign key to screenings: deleting a screening leaves its ledger rows.
	{"reservations", `CREATE TABLE IF NOT EXISTS reservations (
  id            BIGINT UNSIGNED NOT NULL,
  screening_id  BIGINT UNSIGNED NOT NULL,
  user_id       BIGINT UNSIGNED NOT NULL,
  seats         INT UNSIGNED    NOT NULL,
  confirmed_at  DATETIME        NOT NULL,
  PRIMARY KEY (id),
  KEY idx_reservations_screening (screening_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Migrate creates missing tables in dependency order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", m.name, err)
		}
	}
	return nil
}
