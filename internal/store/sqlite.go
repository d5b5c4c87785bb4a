package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS solicitations (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS outcomes (
	id              TEXT PRIMARY KEY,
	solicitation_id TEXT NOT NULL REFERENCES solicitations(id),
	company_id      TEXT NOT NULL,
	rank            INTEGER NOT NULL,
	data            TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_outcomes_solicitation ON outcomes(solicitation_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveCompany(ctx context.Context, c model.Company) error {
	if c.ID == "" {
		return eris.New("sqlite: company id is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal company")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO companies (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		c.ID, string(data), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save company")
}

func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM companies WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get company %s", id)
	}
	var c model.Company
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal company")
	}
	return &c, nil
}

func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM companies ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		var c model.Company
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal company")
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "sqlite: iterate companies")
}

func (s *SQLiteStore) DeleteCompany(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete company %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SaveSolicitation(ctx context.Context, sol model.Solicitation) error {
	if sol.ID == "" {
		return eris.New("sqlite: solicitation id is required")
	}
	data, err := json.Marshal(sol)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal solicitation")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO solicitations (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sol.ID, string(data), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save solicitation")
}

func (s *SQLiteStore) GetSolicitation(ctx context.Context, id string) (*model.Solicitation, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM solicitations WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get solicitation %s", id)
	}
	var sol model.Solicitation
	if err := json.Unmarshal([]byte(data), &sol); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal solicitation")
	}
	return &sol, nil
}

func (s *SQLiteStore) ListSolicitations(ctx context.Context) ([]model.Solicitation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM solicitations ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list solicitations")
	}
	defer rows.Close()

	var sols []model.Solicitation
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan solicitation")
		}
		var sol model.Solicitation
		if err := json.Unmarshal([]byte(data), &sol); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal solicitation")
		}
		sols = append(sols, sol)
	}
	return sols, eris.Wrap(rows.Err(), "sqlite: iterate solicitations")
}

func (s *SQLiteStore) SaveOutcomes(ctx context.Context, solicitationID string, outcomes []model.PipelineOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM outcomes WHERE solicitation_id = ?`, solicitationID); err != nil {
		return eris.Wrap(err, "sqlite: clear outcomes")
	}

	now := time.Now().UTC()
	for i, o := range outcomes {
		data, err := json.Marshal(o)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal outcome")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (id, solicitation_id, company_id, rank, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), solicitationID, o.Match.CompanyID, i, string(data), now,
		); err != nil {
			return eris.Wrap(err, "sqlite: insert outcome")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit outcomes")
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, solicitationID string) ([]model.PipelineOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM outcomes WHERE solicitation_id = ? ORDER BY rank`, solicitationID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outcomes")
	}
	defer rows.Close()

	var outcomes []model.PipelineOutcome
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		var o model.PipelineOutcome
		if err := json.Unmarshal([]byte(data), &o); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal outcome")
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, eris.Wrap(rows.Err(), "sqlite: iterate outcomes")
}
