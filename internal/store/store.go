// Package store persists company profiles, parsed solicitations, and
// pipeline outcomes behind a driver-selectable interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for the alignment pipeline.
type Store interface {
	// Companies
	SaveCompany(ctx context.Context, c model.Company) error
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context) ([]model.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	// Solicitations
	SaveSolicitation(ctx context.Context, s model.Solicitation) error
	GetSolicitation(ctx context.Context, id string) (*model.Solicitation, error)
	ListSolicitations(ctx context.Context) ([]model.Solicitation, error)

	// Pipeline outcomes, ranked order preserved per solicitation.
	SaveOutcomes(ctx context.Context, solicitationID string, outcomes []model.PipelineOutcome) error
	ListOutcomes(ctx context.Context, solicitationID string) ([]model.PipelineOutcome, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open selects a backend by driver name: "sqlite" (default) or "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
