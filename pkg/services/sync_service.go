package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/TheCarlosRamos/projeto-portos/pkg/apperrors"
	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/repositories"
	"github.com/TheCarlosRamos/projeto-portos/pkg/sheet"
)

// SyncService implements the replace-mode synchronization strategy: the
// whole dataset is validated up front, and only a dataset with zero
// error-severity violations is written — inside one transaction that clears
// the three tables and reinserts every row, rebuilding parent/child linkage
// from natural-key matches captured during the same pass.
type SyncService interface {
	// Replace validates and, if clean, atomically replaces the store
	// contents with the dataset. The returned violations always carry the
	// full validation report; when it contains errors the store is left
	// untouched and the error wraps apperrors.ErrValidationFailed.
	Replace(ctx context.Context, ds *sheet.Dataset) ([]models.Violation, error)
}

type syncService struct {
	db        *database.DB
	regs      repositories.RegistrationRepository
	svcs      repositories.ServiceRepository
	upds      repositories.UpdateRepository
	validator *Validator
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	db *database.DB,
	regs repositories.RegistrationRepository,
	svcs repositories.ServiceRepository,
	upds repositories.UpdateRepository,
	validator *Validator,
	logger *zap.Logger,
) SyncService {
	return &syncService{
		db:        db,
		regs:      regs,
		svcs:      svcs,
		upds:      upds,
		validator: validator,
		logger:    logger.Named("sync"),
	}
}

var _ SyncService = (*syncService)(nil)

func (s *syncService) Replace(ctx context.Context, ds *sheet.Dataset) ([]models.Violation, error) {
	violations := s.validator.ValidateDataset(ds)
	if models.HasErrors(violations) {
		s.logger.Warn("Replace sync rejected by validation",
			zap.Int("violations", len(violations)))
		return violations, fmt.Errorf("%d violation(s): %w",
			len(violations), apperrors.ErrValidationFailed)
	}

	err := s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return s.replaceAll(ctx, tx, ds)
	})
	if err != nil {
		return violations, err
	}

	s.logger.Info("Replace sync committed",
		zap.Int("registrations", len(ds.Registrations.Rows)),
		zap.Int("services", len(ds.Services.Rows)),
		zap.Int("updates", len(ds.Updates.Rows)))
	return violations, nil
}

// replaceAll performs the clear-and-rewrite sequence inside tx: children
// deleted first, parents inserted first, linkage rebuilt strictly from the
// key index populated during this pass.
func (s *syncService) replaceAll(ctx context.Context, tx pgx.Tx, ds *sheet.Dataset) error {
	if err := s.upds.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := s.svcs.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := s.regs.DeleteAll(ctx, tx); err != nil {
		return err
	}

	index := NewKeyIndex()
	parents := make(map[models.RegistrationKey]*models.Registration)

	for _, row := range ds.Registrations.Rows {
		reg := sheet.DecodeRegistration(row)
		key := reg.Key()
		if !key.Complete() {
			continue
		}
		if reg.TotalCapex.Sign() <= 0 {
			// Reported as a warning during validation; the row is skipped.
			continue
		}
		if err := s.regs.Create(ctx, tx, reg); err != nil {
			return err
		}
		index.AddRegistration(key, reg.ID)
		parents[key] = reg
	}

	for _, row := range ds.Services.Rows {
		key := sheet.ServiceKeyOf(row)
		if !key.Complete() {
			continue
		}
		regID, ok := index.FindRegistration(key.RegistrationKey)
		if !ok {
			return fmt.Errorf("service %q: %w", key.Name, apperrors.ErrParentNotFound)
		}

		svc := sheet.DecodeService(row)
		svc.RegistrationID = regID
		DeriveService(svc, parents[key.RegistrationKey])

		if err := s.svcs.Create(ctx, tx, svc); err != nil {
			return err
		}
		index.AddService(key, svc.ID)
	}

	for _, row := range ds.Updates.Rows {
		ref := sheet.ServiceRefOf(row)
		if !ref.Complete() {
			continue
		}
		svcID, ok := index.FindService(sheet.ServiceKeyOf(row))
		if !ok {
			svcID, ok = index.FindServiceByRef(ref)
		}
		if !ok {
			return fmt.Errorf("update for service %q: %w", ref.Name, apperrors.ErrParentNotFound)
		}

		upd := sheet.DecodeUpdate(row)
		upd.ServiceID = svcID
		if err := s.upds.Create(ctx, tx, upd); err != nil {
			return err
		}
		if err := s.linkRisk(ctx, tx, upd); err != nil {
			return err
		}
	}

	return nil
}

func (s *syncService) linkRisk(ctx context.Context, q database.Querier, upd *models.ExecutionUpdate) error {
	if upd.RiskKind == "" {
		return nil
	}
	risk, err := s.upds.GetOrCreateRisk(ctx, q, upd.RiskKind, upd.RiskDescription)
	if err != nil {
		return err
	}
	return s.upds.LinkRisk(ctx, q, upd.ID, risk.ID)
}
