package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TheCarlosRamos/projeto-portos/pkg/apperrors"
	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/repositories"
	"github.com/TheCarlosRamos/projeto-portos/pkg/sheet"
)

// DuplicatePolicy decides what an additive import does when a row's natural
// key already exists in the store.
type DuplicatePolicy string

const (
	// DuplicateSkip leaves the existing row untouched and counts the
	// incoming one as skipped.
	DuplicateSkip DuplicatePolicy = "skip"
	// DuplicateUpdate overwrites the existing row's mutable attributes
	// with the incoming values.
	DuplicateUpdate DuplicatePolicy = "update"
)

// ETLService implements the additive import strategy: rows are validated,
// resolved and inserted one at a time against the live store, and a failure
// on one row never aborts the run. Parents may come from the current batch
// or from data already in the store.
type ETLService interface {
	// Import runs an additive load of the dataset and reports per-sheet
	// processed/skipped/errored counts under a fresh run ID.
	Import(ctx context.Context, ds *sheet.Dataset) (*models.ImportSummary, error)
}

type etlService struct {
	db          *database.DB
	regs        repositories.RegistrationRepository
	svcs        repositories.ServiceRepository
	upds        repositories.UpdateRepository
	onDuplicate DuplicatePolicy
	logger      *zap.Logger
}

// NewETLService creates a new ETLService.
func NewETLService(
	db *database.DB,
	regs repositories.RegistrationRepository,
	svcs repositories.ServiceRepository,
	upds repositories.UpdateRepository,
	onDuplicate DuplicatePolicy,
	logger *zap.Logger,
) ETLService {
	if onDuplicate != DuplicateUpdate {
		onDuplicate = DuplicateSkip
	}
	return &etlService{
		db:          db,
		regs:        regs,
		svcs:        svcs,
		upds:        upds,
		onDuplicate: onDuplicate,
		logger:      logger.Named("etl"),
	}
}

var _ ETLService = (*etlService)(nil)

func (s *etlService) Import(ctx context.Context, ds *sheet.Dataset) (*models.ImportSummary, error) {
	summary := &models.ImportSummary{RunID: uuid.New()}
	logger := s.logger.With(zap.String("run_id", summary.RunID.String()))

	s.importRegistrations(ctx, ds, summary, logger)
	s.importServices(ctx, ds, summary, logger)
	s.importUpdates(ctx, ds, summary, logger)

	total := summary.Total()
	logger.Info("Additive import finished",
		zap.Int("processed", total.Processed),
		zap.Int("skipped", total.Skipped),
		zap.Int("errored", total.Errored))
	return summary, nil
}

func (s *etlService) importRegistrations(ctx context.Context, ds *sheet.Dataset, summary *models.ImportSummary, logger *zap.Logger) {
	counts := &summary.Registrations
	for i, row := range ds.Registrations.Rows {
		rowNum := i + 2 // header row is 1
		reg := sheet.DecodeRegistration(row)
		key := reg.Key()
		if !key.Complete() {
			logger.Warn("Registration row missing key fields, skipped",
				zap.Int("row", rowNum))
			counts.Errored++
			continue
		}
		if reg.TotalCapex.Sign() <= 0 {
			logger.Warn("Registration row has non-positive capex, skipped",
				zap.Int("row", rowNum), zap.String("key", key.String()))
			counts.Skipped++
			continue
		}
		if !models.ValidContractKind(reg.ContractKind) {
			logger.Warn("Registration row has unknown contract kind, skipped",
				zap.Int("row", rowNum), zap.String("contract_kind", reg.ContractKind))
			counts.Errored++
			continue
		}

		existing, err := s.regs.GetByKey(ctx, s.db.Pool, key)
		if err != nil {
			s.rowError(logger, counts, ds.Registrations.Role, rowNum, err)
			continue
		}
		if existing != nil {
			if s.onDuplicate == DuplicateSkip {
				counts.Skipped++
				continue
			}
			reg.ID = existing.ID
			if err := s.regs.Update(ctx, s.db.Pool, reg); err != nil {
				s.rowError(logger, counts, ds.Registrations.Role, rowNum, err)
				continue
			}
			counts.Processed++
			continue
		}

		if err := s.regs.Create(ctx, s.db.Pool, reg); err != nil {
			// A concurrent import may have won the race after GetByKey.
			if errors.Is(err, apperrors.ErrDuplicateKey) {
				counts.Skipped++
				continue
			}
			s.rowError(logger, counts, ds.Registrations.Role, rowNum, err)
			continue
		}
		counts.Processed++
	}
}

func (s *etlService) importServices(ctx context.Context, ds *sheet.Dataset, summary *models.ImportSummary, logger *zap.Logger) {
	counts := &summary.Services
	for i, row := range ds.Services.Rows {
		rowNum := i + 2
		key := sheet.ServiceKeyOf(row)
		if !key.Complete() {
			logger.Warn("Service row missing key fields, skipped",
				zap.Int("row", rowNum))
			counts.Errored++
			continue
		}

		parent, err := s.regs.GetByKey(ctx, s.db.Pool, key.RegistrationKey)
		if err != nil {
			s.rowError(logger, counts, ds.Services.Role, rowNum, err)
			continue
		}
		if parent == nil {
			logger.Warn("Service row references unknown registration, skipped",
				zap.Int("row", rowNum), zap.String("key", key.RegistrationKey.String()))
			counts.Errored++
			continue
		}

		svc := sheet.DecodeService(row)
		svc.RegistrationID = parent.ID
		DeriveService(svc, parent)

		existing, err := s.svcs.GetByKey(ctx, s.db.Pool, parent.ID, key)
		if err != nil {
			s.rowError(logger, counts, ds.Services.Role, rowNum, err)
			continue
		}
		if existing != nil {
			if s.onDuplicate == DuplicateSkip {
				counts.Skipped++
				continue
			}
			svc.ID = existing.ID
			if err := s.svcs.Update(ctx, s.db.Pool, svc); err != nil {
				s.rowError(logger, counts, ds.Services.Role, rowNum, err)
				continue
			}
			counts.Processed++
			continue
		}

		if err := s.svcs.Create(ctx, s.db.Pool, svc); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateKey) {
				counts.Skipped++
				continue
			}
			s.rowError(logger, counts, ds.Services.Role, rowNum, err)
			continue
		}
		counts.Processed++
	}
}

func (s *etlService) importUpdates(ctx context.Context, ds *sheet.Dataset, summary *models.ImportSummary, logger *zap.Logger) {
	counts := &summary.Updates
	for i, row := range ds.Updates.Rows {
		rowNum := i + 2
		ref := sheet.ServiceRefOf(row)
		if !ref.Complete() {
			logger.Warn("Update row missing key fields, skipped",
				zap.Int("row", rowNum))
			counts.Errored++
			continue
		}

		svcID, err := s.resolveService(ctx, row, ref)
		if err != nil {
			logger.Warn("Update row could not be matched to a service, skipped",
				zap.Int("row", rowNum), zap.String("service", ref.Name), zap.Error(err))
			counts.Errored++
			continue
		}

		upd := sheet.DecodeUpdate(row)
		upd.ServiceID = svcID
		if err := s.upds.Create(ctx, s.db.Pool, upd); err != nil {
			s.rowError(logger, counts, ds.Updates.Role, rowNum, err)
			continue
		}
		if err := s.linkRisk(ctx, upd); err != nil {
			s.rowError(logger, counts, ds.Updates.Role, rowNum, err)
			continue
		}
		counts.Processed++
	}
}

// resolveService matches an update row to a stored service: first by the
// full natural key including the description, then by the description-less
// reference when exactly one service of the registration matches. Zero or
// several matches leave the row unresolved rather than attached to an
// arbitrary parent.
func (s *etlService) resolveService(ctx context.Context, row sheet.Row, ref models.ServiceRef) (int64, error) {
	key := sheet.ServiceKeyOf(row)
	parent, err := s.regs.GetByKey(ctx, s.db.Pool, key.RegistrationKey)
	if err != nil {
		return 0, err
	}
	if parent == nil {
		return 0, fmt.Errorf("registration %q not found", key.RegistrationKey.String())
	}

	svc, err := s.svcs.GetByKey(ctx, s.db.Pool, parent.ID, key)
	if err != nil {
		return 0, err
	}
	if svc != nil {
		return svc.ID, nil
	}

	siblings, err := s.svcs.ListByRegistration(ctx, s.db.Pool, parent.ID)
	if err != nil {
		return 0, err
	}
	// Siblings already belong to the right registration, so only the
	// service-level components of the ref are compared.
	var matches []int64
	for _, sib := range siblings {
		if sib.ServiceType == ref.ServiceType && sib.Phase == ref.Phase && sib.Name == ref.Name {
			matches = append(matches, sib.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return 0, fmt.Errorf("service %q not found", ref.Name)
	default:
		return 0, fmt.Errorf("service %q matches %d rows", ref.Name, len(matches))
	}
}

func (s *etlService) linkRisk(ctx context.Context, upd *models.ExecutionUpdate) error {
	if upd.RiskKind == "" {
		return nil
	}
	risk, err := s.upds.GetOrCreateRisk(ctx, s.db.Pool, upd.RiskKind, upd.RiskDescription)
	if err != nil {
		return err
	}
	return s.upds.LinkRisk(ctx, s.db.Pool, upd.ID, risk.ID)
}

func (s *etlService) rowError(logger *zap.Logger, counts *models.SheetCounts, role sheet.Role, rowNum int, err error) {
	logger.Error("Row failed, continuing import",
		zap.String("sheet", string(role)),
		zap.Int("row", rowNum),
		zap.Error(err))
	counts.Errored++
}
