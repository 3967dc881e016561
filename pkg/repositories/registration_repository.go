// Package repositories provides pgx-backed data access for the concession
// registry. Repositories are stateless; every method takes an explicit
// database.Querier so callers choose the transaction boundary.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/TheCarlosRamos/projeto-portos/pkg/apperrors"
	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
)

// RegistrationRepository provides data access for concession registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, q database.Querier, reg *models.Registration) error
	Update(ctx context.Context, q database.Querier, reg *models.Registration) error
	GetByKey(ctx context.Context, q database.Querier, key models.RegistrationKey) (*models.Registration, error)
	List(ctx context.Context, q database.Querier) ([]*models.Registration, error)
	DeleteAll(ctx context.Context, q database.Querier) error
}

type registrationRepository struct{}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository() RegistrationRepository {
	return &registrationRepository{}
}

var _ RegistrationRepository = (*registrationRepository)(nil)

func (r *registrationRepository) Create(ctx context.Context, q database.Querier, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (
			port_zone, state, concession_object, contract_kind, total_capex,
			signed_at, description, coord_east, coord_north, utm_zone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		reg.PortZone,
		reg.State,
		reg.ConcessionObject,
		reg.ContractKind,
		reg.TotalCapex.String(),
		reg.SignedAt,
		nullString(reg.Description),
		reg.CoordEast,
		reg.CoordNorth,
		reg.UTMZone,
	).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("registration %s: %w", reg.Key().String(), apperrors.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}

	return nil
}

// Update rewrites the mutable attributes of a registration. The natural
// key itself is never updated in place.
func (r *registrationRepository) Update(ctx context.Context, q database.Querier, reg *models.Registration) error {
	query := `
		UPDATE registrations
		SET contract_kind = $2, total_capex = $3, signed_at = $4,
		    description = $5, coord_east = $6, coord_north = $7, utm_zone = $8
		WHERE id = $1`

	result, err := q.Exec(ctx, query,
		reg.ID,
		reg.ContractKind,
		reg.TotalCapex.String(),
		reg.SignedAt,
		nullString(reg.Description),
		reg.CoordEast,
		reg.CoordNorth,
		reg.UTMZone,
	)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *registrationRepository) GetByKey(ctx context.Context, q database.Querier, key models.RegistrationKey) (*models.Registration, error) {
	query := `
		SELECT id, port_zone, state, concession_object, contract_kind,
		       total_capex::text, signed_at, description, coord_east,
		       coord_north, utm_zone
		FROM registrations
		WHERE port_zone = $1 AND state = $2 AND concession_object = $3`

	row := q.QueryRow(ctx, query, key.PortZone, key.State, key.ConcessionObject)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // registration not found
		}
		return nil, err
	}

	return reg, nil
}

func (r *registrationRepository) List(ctx context.Context, q database.Querier) ([]*models.Registration, error) {
	query := `
		SELECT id, port_zone, state, concession_object, contract_kind,
		       total_capex::text, signed_at, description, coord_east,
		       coord_north, utm_zone
		FROM registrations
		ORDER BY port_zone, state, concession_object`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

func (r *registrationRepository) DeleteAll(ctx context.Context, q database.Querier) error {
	if _, err := q.Exec(ctx, `DELETE FROM registrations`); err != nil {
		return fmt.Errorf("failed to delete registrations: %w", err)
	}
	return nil
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	var totalCapex string
	var description *string

	err := row.Scan(
		&reg.ID,
		&reg.PortZone,
		&reg.State,
		&reg.ConcessionObject,
		&reg.ContractKind,
		&totalCapex,
		&reg.SignedAt,
		&description,
		&reg.CoordEast,
		&reg.CoordNorth,
		&reg.UTMZone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}

	capex, err := decimal.NewFromString(totalCapex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total_capex %q: %w", totalCapex, err)
	}
	reg.TotalCapex = capex

	if description != nil {
		reg.Description = *description
	}

	return &reg, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// nullString returns nil for the empty string so blank cells become NULLs.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullDecimal renders an optional decimal as a text argument.
func nullDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// parseNullDecimal converts a scanned numeric::text column back.
func parseNullDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse numeric %q: %w", *s, err)
	}
	return &d, nil
}
