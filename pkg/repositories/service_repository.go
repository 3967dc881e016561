package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TheCarlosRamos/projeto-portos/pkg/apperrors"
	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
)

// ServiceRepository provides data access for concession services.
type ServiceRepository interface {
	Create(ctx context.Context, q database.Querier, svc *models.Service) error
	Update(ctx context.Context, q database.Querier, svc *models.Service) error
	GetByKey(ctx context.Context, q database.Querier, registrationID int64, key models.ServiceKey) (*models.Service, error)
	ListByRegistration(ctx context.Context, q database.Querier, registrationID int64) ([]*models.Service, error)
	List(ctx context.Context, q database.Querier) ([]*models.Service, error)
	DeleteAll(ctx context.Context, q database.Querier) error
}

type serviceRepository struct{}

// NewServiceRepository creates a new ServiceRepository.
func NewServiceRepository() ServiceRepository {
	return &serviceRepository{}
}

var _ ServiceRepository = (*serviceRepository)(nil)

const serviceColumns = `
	id, registration_id, service_type, phase, name, description,
	start_offset_years, start_date, end_offset_years, end_date,
	schedule_source, capex_share, budget::text, share_source`

func (r *serviceRepository) Create(ctx context.Context, q database.Querier, svc *models.Service) error {
	query := `
		INSERT INTO services (
			registration_id, service_type, phase, name, description,
			start_offset_years, start_date, end_offset_years, end_date,
			schedule_source, capex_share, budget, share_source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		svc.RegistrationID,
		svc.ServiceType,
		svc.Phase,
		svc.Name,
		svc.Description,
		svc.StartOffsetYears,
		svc.StartDate,
		svc.EndOffsetYears,
		svc.EndDate,
		nullString(svc.ScheduleSource),
		svc.CapexShare,
		nullDecimal(svc.Budget),
		nullString(svc.ShareSource),
	).Scan(&svc.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("service %q: %w", svc.Name, apperrors.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// Update rewrites the mutable attributes of a service. The natural key
// columns are never updated in place.
func (r *serviceRepository) Update(ctx context.Context, q database.Querier, svc *models.Service) error {
	query := `
		UPDATE services
		SET start_offset_years = $2, start_date = $3, end_offset_years = $4,
		    end_date = $5, schedule_source = $6, capex_share = $7,
		    budget = $8, share_source = $9
		WHERE id = $1`

	result, err := q.Exec(ctx, query,
		svc.ID,
		svc.StartOffsetYears,
		svc.StartDate,
		svc.EndOffsetYears,
		svc.EndDate,
		nullString(svc.ScheduleSource),
		svc.CapexShare,
		nullDecimal(svc.Budget),
		nullString(svc.ShareSource),
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *serviceRepository) GetByKey(ctx context.Context, q database.Querier, registrationID int64, key models.ServiceKey) (*models.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE registration_id = $1 AND service_type = $2 AND phase = $3
		  AND name = $4 AND description = $5`

	row := q.QueryRow(ctx, query,
		registrationID, key.ServiceType, key.Phase, key.Name, key.Description)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // service not found
		}
		return nil, err
	}

	return svc, nil
}

func (r *serviceRepository) ListByRegistration(ctx context.Context, q database.Querier, registrationID int64) ([]*models.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE registration_id = $1
		ORDER BY service_type, phase, name, description`

	rows, err := q.Query(ctx, query, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	return collectServices(rows)
}

func (r *serviceRepository) List(ctx context.Context, q database.Querier) ([]*models.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		ORDER BY registration_id, service_type, phase, name, description`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	return collectServices(rows)
}

func (r *serviceRepository) DeleteAll(ctx context.Context, q database.Querier) error {
	if _, err := q.Exec(ctx, `DELETE FROM services`); err != nil {
		return fmt.Errorf("failed to delete services: %w", err)
	}
	return nil
}

func collectServices(rows pgx.Rows) ([]*models.Service, error) {
	var svcs []*models.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		svcs = append(svcs, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}
	return svcs, nil
}

func scanService(row pgx.Row) (*models.Service, error) {
	var svc models.Service
	var budget, scheduleSource, shareSource *string

	err := row.Scan(
		&svc.ID,
		&svc.RegistrationID,
		&svc.ServiceType,
		&svc.Phase,
		&svc.Name,
		&svc.Description,
		&svc.StartOffsetYears,
		&svc.StartDate,
		&svc.EndOffsetYears,
		&svc.EndDate,
		&scheduleSource,
		&svc.CapexShare,
		&budget,
		&shareSource,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}

	svc.Budget, err = parseNullDecimal(budget)
	if err != nil {
		return nil, err
	}

	if scheduleSource != nil {
		svc.ScheduleSource = *scheduleSource
	}
	if shareSource != nil {
		svc.ShareSource = *shareSource
	}

	return &svc, nil
}
