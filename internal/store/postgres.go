package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, extracted so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS solicitations (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outcomes (
	id              TEXT PRIMARY KEY,
	solicitation_id TEXT NOT NULL REFERENCES solicitations(id),
	company_id      TEXT NOT NULL,
	rank            INTEGER NOT NULL,
	data            JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_outcomes_solicitation ON outcomes(solicitation_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveCompany(ctx context.Context, c model.Company) error {
	if c.ID == "" {
		return eris.New("postgres: company id is required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal company")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies (id, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		c.ID, data, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save company")
}

func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM companies WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", id)
	}
	var c model.Company
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal company")
	}
	return &c, nil
}

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM companies ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		var c model.Company
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal company")
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: iterate companies")
}

func (s *PostgresStore) DeleteCompany(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete company %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SaveSolicitation(ctx context.Context, sol model.Solicitation) error {
	if sol.ID == "" {
		return eris.New("postgres: solicitation id is required")
	}
	data, err := json.Marshal(sol)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal solicitation")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO solicitations (id, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		sol.ID, data, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save solicitation")
}

func (s *PostgresStore) GetSolicitation(ctx context.Context, id string) (*model.Solicitation, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM solicitations WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get solicitation %s", id)
	}
	var sol model.Solicitation
	if err := json.Unmarshal(data, &sol); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal solicitation")
	}
	return &sol, nil
}

func (s *PostgresStore) ListSolicitations(ctx context.Context) ([]model.Solicitation, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM solicitations ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list solicitations")
	}
	defer rows.Close()

	var sols []model.Solicitation
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan solicitation")
		}
		var sol model.Solicitation
		if err := json.Unmarshal(data, &sol); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal solicitation")
		}
		sols = append(sols, sol)
	}
	return sols, eris.Wrap(rows.Err(), "postgres: iterate solicitations")
}

func (s *PostgresStore) SaveOutcomes(ctx context.Context, solicitationID string, outcomes []model.PipelineOutcome) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM outcomes WHERE solicitation_id = $1`, solicitationID); err != nil {
		return eris.Wrap(err, "postgres: clear outcomes")
	}

	now := time.Now().UTC()
	for i, o := range outcomes {
		data, err := json.Marshal(o)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal outcome")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO outcomes (id, solicitation_id, company_id, rank, data, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), solicitationID, o.Match.CompanyID, i, data, now,
		); err != nil {
			return eris.Wrap(err, "postgres: insert outcome")
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit outcomes")
}

func (s *PostgresStore) ListOutcomes(ctx context.Context, solicitationID string) ([]model.PipelineOutcome, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM outcomes WHERE solicitation_id = $1 ORDER BY rank`, solicitationID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list outcomes")
	}
	defer rows.Close()

	var outcomes []model.PipelineOutcome
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan outcome")
		}
		var o model.PipelineOutcome
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal outcome")
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, eris.Wrap(rows.Err(), "postgres: iterate outcomes")
}
