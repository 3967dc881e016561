package services

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/repositories"
	"github.com/TheCarlosRamos/projeto-portos/pkg/sheet"
)

// exportDateLayout matches the day-first format the ingest side accepts, so
// an exported workbook re-imports cleanly.
const exportDateLayout = "02/01/2006"

// ExportService flattens the store back into the three-sheet tabular shape.
// Natural-key columns are repeated on every child row so each sheet stands
// alone.
type ExportService interface {
	// Export reads the whole store and returns it as a dataset ready for
	// workbook serialization.
	Export(ctx context.Context) (*sheet.Dataset, error)
}

type exportService struct {
	db     *database.DB
	regs   repositories.RegistrationRepository
	svcs   repositories.ServiceRepository
	upds   repositories.UpdateRepository
	logger *zap.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(
	db *database.DB,
	regs repositories.RegistrationRepository,
	svcs repositories.ServiceRepository,
	upds repositories.UpdateRepository,
	logger *zap.Logger,
) ExportService {
	return &exportService{
		db:     db,
		regs:   regs,
		svcs:   svcs,
		upds:   upds,
		logger: logger.Named("export"),
	}
}

var _ ExportService = (*exportService)(nil)

func (s *exportService) Export(ctx context.Context) (*sheet.Dataset, error) {
	ds := &sheet.Dataset{
		Registrations: sheet.Table{Role: sheet.RoleRegistrations, Columns: sheet.Columns(sheet.RoleRegistrations)},
		Services:      sheet.Table{Role: sheet.RoleServices, Columns: sheet.Columns(sheet.RoleServices)},
		Updates:       sheet.Table{Role: sheet.RoleUpdates, Columns: sheet.Columns(sheet.RoleUpdates)},
	}

	regs, err := s.regs.List(ctx, s.db.Pool)
	if err != nil {
		return nil, err
	}

	for _, reg := range regs {
		ds.Registrations.Rows = append(ds.Registrations.Rows, registrationRow(reg))

		svcs, err := s.svcs.ListByRegistration(ctx, s.db.Pool, reg.ID)
		if err != nil {
			return nil, err
		}
		for _, svc := range svcs {
			ds.Services.Rows = append(ds.Services.Rows, serviceRow(reg, svc))

			upds, err := s.upds.ListByService(ctx, s.db.Pool, svc.ID)
			if err != nil {
				return nil, err
			}
			for _, upd := range upds {
				risks, err := s.upds.ListRisks(ctx, s.db.Pool, upd.ID)
				if err != nil {
					return nil, err
				}
				upd.Risks = risks
				ds.Updates.Rows = append(ds.Updates.Rows, updateRow(reg, svc, upd))
			}
		}
	}

	s.logger.Info("Export assembled",
		zap.Int("registrations", len(ds.Registrations.Rows)),
		zap.Int("services", len(ds.Services.Rows)),
		zap.Int("updates", len(ds.Updates.Rows)))
	return ds, nil
}

func registrationRow(reg *models.Registration) sheet.Row {
	return sheet.Row{
		sheet.FieldPortZone:         reg.PortZone,
		sheet.FieldState:            reg.State,
		sheet.FieldConcessionObject: reg.ConcessionObject,
		sheet.FieldContractKind:     reg.ContractKind,
		sheet.FieldTotalCapex:       reg.TotalCapex.StringFixed(2),
		sheet.FieldSignedAt:         formatDate(reg.SignedAt),
		sheet.FieldDescription:      reg.Description,
		sheet.FieldCoordEast:        formatFloat(reg.CoordEast),
		sheet.FieldCoordNorth:       formatFloat(reg.CoordNorth),
		sheet.FieldUTMZone:          formatInt(reg.UTMZone),
	}
}

func serviceRow(reg *models.Registration, svc *models.Service) sheet.Row {
	return sheet.Row{
		sheet.FieldPortZone:         reg.PortZone,
		sheet.FieldState:            reg.State,
		sheet.FieldConcessionObject: reg.ConcessionObject,
		sheet.FieldServiceType:      svc.ServiceType,
		sheet.FieldPhase:            svc.Phase,
		sheet.FieldServiceName:      svc.Name,
		sheet.FieldDescription:      svc.Description,
		sheet.FieldStartOffsetYears: formatInt(svc.StartOffsetYears),
		sheet.FieldStartDate:        formatDate(svc.StartDate),
		sheet.FieldEndOffsetYears:   formatInt(svc.EndOffsetYears),
		sheet.FieldEndDate:          formatDate(svc.EndDate),
		sheet.FieldScheduleSource:   svc.ScheduleSource,
		sheet.FieldCapexShare:       formatShare(svc.CapexShare),
		sheet.FieldServiceBudget:    formatDecimal(svc.Budget),
		sheet.FieldShareSource:      svc.ShareSource,
	}
}

func updateRow(reg *models.Registration, svc *models.Service, upd *models.ExecutionUpdate) sheet.Row {
	riskKind, riskDesc := upd.RiskKind, upd.RiskDescription
	if len(upd.Risks) > 0 {
		riskKind, riskDesc = upd.Risks[0].Kind, upd.Risks[0].Description
	}
	return sheet.Row{
		sheet.FieldPortZone:         reg.PortZone,
		sheet.FieldState:            reg.State,
		sheet.FieldConcessionObject: reg.ConcessionObject,
		sheet.FieldServiceType:      svc.ServiceType,
		sheet.FieldPhase:            svc.Phase,
		sheet.FieldServiceName:      svc.Name,
		sheet.FieldDescription:      upd.Description,
		sheet.FieldExecutedShare:    formatShare(upd.ExecutedShare),
		sheet.FieldAdjustedBudget:   formatDecimal(upd.AdjustedBudget),
		sheet.FieldExecutedValue:    formatDecimal(upd.ExecutedValue),
		sheet.FieldUpdatedAt:        formatDate(upd.UpdatedAt),
		sheet.FieldResponsible:      upd.Responsible,
		sheet.FieldRole:             upd.Role,
		sheet.FieldDepartment:       upd.Department,
		sheet.FieldRiskKind:         riskKind,
		sheet.FieldRiskDescription:  riskDesc,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

// formatShare writes the stored fraction as-is; values in [0, 1] survive a
// round trip through the percentage normalizer unchanged.
func formatShare(f *float64) string {
	return formatFloat(f)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
