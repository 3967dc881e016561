package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
)

// UpdateRepository provides data access for execution updates and their
// risk classifications.
type UpdateRepository interface {
	Create(ctx context.Context, q database.Querier, upd *models.ExecutionUpdate) error
	ListByService(ctx context.Context, q database.Querier, serviceID int64) ([]*models.ExecutionUpdate, error)
	List(ctx context.Context, q database.Querier) ([]*models.ExecutionUpdate, error)
	DeleteAll(ctx context.Context, q database.Querier) error

	GetOrCreateRisk(ctx context.Context, q database.Querier, kind, description string) (*models.Risk, error)
	LinkRisk(ctx context.Context, q database.Querier, updateID, riskID int64) error
	ListRisks(ctx context.Context, q database.Querier, updateID int64) ([]models.Risk, error)
}

type updateRepository struct{}

// NewUpdateRepository creates a new UpdateRepository.
func NewUpdateRepository() UpdateRepository {
	return &updateRepository{}
}

var _ UpdateRepository = (*updateRepository)(nil)

const updateColumns = `
	id, service_id, description, executed_share, adjusted_budget::text,
	executed_value::text, updated_at, responsible, role, department`

func (r *updateRepository) Create(ctx context.Context, q database.Querier, upd *models.ExecutionUpdate) error {
	query := `
		INSERT INTO execution_updates (
			service_id, description, executed_share, adjusted_budget,
			executed_value, updated_at, responsible, role, department
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := q.QueryRow(ctx, query,
		upd.ServiceID,
		nullString(upd.Description),
		upd.ExecutedShare,
		nullDecimal(upd.AdjustedBudget),
		nullDecimal(upd.ExecutedValue),
		upd.UpdatedAt,
		nullString(upd.Responsible),
		nullString(upd.Role),
		nullString(upd.Department),
	).Scan(&upd.ID)
	if err != nil {
		return fmt.Errorf("failed to create execution update: %w", err)
	}

	return nil
}

func (r *updateRepository) ListByService(ctx context.Context, q database.Querier, serviceID int64) ([]*models.ExecutionUpdate, error) {
	query := `
		SELECT ` + updateColumns + `
		FROM execution_updates
		WHERE service_id = $1
		ORDER BY updated_at NULLS LAST, id`

	rows, err := q.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution updates: %w", err)
	}
	defer rows.Close()

	return collectUpdates(rows)
}

func (r *updateRepository) List(ctx context.Context, q database.Querier) ([]*models.ExecutionUpdate, error) {
	query := `
		SELECT ` + updateColumns + `
		FROM execution_updates
		ORDER BY service_id, updated_at NULLS LAST, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution updates: %w", err)
	}
	defer rows.Close()

	return collectUpdates(rows)
}

func (r *updateRepository) DeleteAll(ctx context.Context, q database.Querier) error {
	if _, err := q.Exec(ctx, `DELETE FROM execution_updates`); err != nil {
		return fmt.Errorf("failed to delete execution updates: %w", err)
	}
	return nil
}

// GetOrCreateRisk finds a risk by kind or inserts it. The description of an
// existing risk is kept as first seen, matching the source system.
func (r *updateRepository) GetOrCreateRisk(ctx context.Context, q database.Querier, kind, description string) (*models.Risk, error) {
	var risk models.Risk
	var desc *string

	err := q.QueryRow(ctx,
		`SELECT id, kind, description FROM risks WHERE kind = $1`, kind,
	).Scan(&risk.ID, &risk.Kind, &desc)
	if err == nil {
		if desc != nil {
			risk.Description = *desc
		}
		return &risk, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up risk: %w", err)
	}

	err = q.QueryRow(ctx,
		`INSERT INTO risks (kind, description) VALUES ($1, $2) RETURNING id`,
		kind, nullString(description),
	).Scan(&risk.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create risk: %w", err)
	}

	risk.Kind = kind
	risk.Description = description
	return &risk, nil
}

func (r *updateRepository) LinkRisk(ctx context.Context, q database.Querier, updateID, riskID int64) error {
	query := `
		INSERT INTO update_risks (update_id, risk_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := q.Exec(ctx, query, updateID, riskID); err != nil {
		return fmt.Errorf("failed to link risk: %w", err)
	}
	return nil
}

func (r *updateRepository) ListRisks(ctx context.Context, q database.Querier, updateID int64) ([]models.Risk, error) {
	query := `
		SELECT r.id, r.kind, r.description
		FROM risks r
		JOIN update_risks ur ON ur.risk_id = r.id
		WHERE ur.update_id = $1
		ORDER BY r.kind`

	rows, err := q.Query(ctx, query, updateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query risks: %w", err)
	}
	defer rows.Close()

	var risks []models.Risk
	for rows.Next() {
		var risk models.Risk
		var desc *string
		if err := rows.Scan(&risk.ID, &risk.Kind, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan risk: %w", err)
		}
		if desc != nil {
			risk.Description = *desc
		}
		risks = append(risks, risk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating risks: %w", err)
	}

	return risks, nil
}

func collectUpdates(rows pgx.Rows) ([]*models.ExecutionUpdate, error) {
	var upds []*models.ExecutionUpdate
	for rows.Next() {
		upd, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		upds = append(upds, upd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating execution updates: %w", err)
	}
	return upds, nil
}

func scanUpdate(row pgx.Row) (*models.ExecutionUpdate, error) {
	var upd models.ExecutionUpdate
	var description, adjustedBudget, executedValue *string
	var responsible, role, department *string

	err := row.Scan(
		&upd.ID,
		&upd.ServiceID,
		&description,
		&upd.ExecutedShare,
		&adjustedBudget,
		&executedValue,
		&upd.UpdatedAt,
		&responsible,
		&role,
		&department,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan execution update: %w", err)
	}

	upd.AdjustedBudget, err = parseNullDecimal(adjustedBudget)
	if err != nil {
		return nil, err
	}
	upd.ExecutedValue, err = parseNullDecimal(executedValue)
	if err != nil {
		return nil, err
	}

	if description != nil {
		upd.Description = *description
	}
	if responsible != nil {
		upd.Responsible = *responsible
	}
	if role != nil {
		upd.Role = *role
	}
	if department != nil {
		upd.Department = *department
	}

	return &upd, nil
}
