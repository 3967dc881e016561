package sheet

import (
	"strings"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/normalize"
)

func trimmed(row Row, field string) string {
	return strings.TrimSpace(row.Get(field))
}

// contractKindAliases maps normalized source-vocabulary labels to the
// canonical contract kinds. Keys must already be in normalizeToken form.
var contractKindAliases = map[string]string{
	"concessao":     models.ContractConcession,
	"concession":    models.ContractConcession,
	"arrendamento":  models.ContractLease,
	"lease":         models.ContractLease,
	"autorizacao":   models.ContractAuthorization,
	"authorization": models.ContractAuthorization,
}

// ContractKindOf returns the canonical contract kind of a registrations
// row. Blank cells default to Concession and source-language labels
// (Concessão, Arrendamento, Autorização) translate to their canonical
// forms; anything else passes through untouched for the validator to
// report.
func ContractKindOf(row Row) string {
	kind := trimmed(row, FieldContractKind)
	if kind == "" {
		return models.ContractConcession
	}
	if canonical, ok := contractKindAliases[normalizeToken(kind)]; ok {
		return canonical
	}
	return kind
}

// RegistrationKeyOf extracts the natural key columns from a row of any of
// the three sheets.
func RegistrationKeyOf(row Row) models.RegistrationKey {
	return models.RegistrationKey{
		PortZone:         trimmed(row, FieldPortZone),
		State:            trimmed(row, FieldState),
		ConcessionObject: trimmed(row, FieldConcessionObject),
	}
}

// ServiceKeyOf extracts the full service natural key from a services row.
func ServiceKeyOf(row Row) models.ServiceKey {
	return models.ServiceKey{
		RegistrationKey: RegistrationKeyOf(row),
		ServiceType:     trimmed(row, FieldServiceType),
		Phase:           trimmed(row, FieldPhase),
		Name:            trimmed(row, FieldServiceName),
		Description:     trimmed(row, FieldDescription),
	}
}

// ServiceRefOf extracts the description-less service reference used by
// execution-update rows to address their parent.
func ServiceRefOf(row Row) models.ServiceRef {
	return models.ServiceRef{
		RegistrationKey: RegistrationKeyOf(row),
		ServiceType:     trimmed(row, FieldServiceType),
		Phase:           trimmed(row, FieldPhase),
		Name:            trimmed(row, FieldServiceName),
	}
}

// DecodeRegistration builds a Registration from a canonical row, applying
// the scalar normalizers. The contract kind goes through ContractKindOf;
// invalid kinds are left as-is for the validator to report.
func DecodeRegistration(row Row) *models.Registration {
	kind := ContractKindOf(row)

	var utmZone *int
	if z := normalize.Int(row.Get(FieldUTMZone)); z != nil {
		utmZone = z
	}

	return &models.Registration{
		PortZone:         trimmed(row, FieldPortZone),
		State:            trimmed(row, FieldState),
		ConcessionObject: trimmed(row, FieldConcessionObject),
		ContractKind:     kind,
		TotalCapex:       normalize.Amount(row.Get(FieldTotalCapex)),
		SignedAt:         normalize.Date(row.Get(FieldSignedAt)),
		Description:      trimmed(row, FieldDescription),
		CoordEast:        normalize.Float(row.Get(FieldCoordEast)),
		CoordNorth:       normalize.Float(row.Get(FieldCoordNorth)),
		UTMZone:          utmZone,
	}
}

// DecodeService builds a Service from a canonical row. The parent linkage
// (RegistrationID) and the derived fields are filled later by the
// resolution and derivation steps.
func DecodeService(row Row) *models.Service {
	svc := &models.Service{
		ServiceType:      trimmed(row, FieldServiceType),
		Phase:            trimmed(row, FieldPhase),
		Name:             trimmed(row, FieldServiceName),
		Description:      trimmed(row, FieldDescription),
		StartOffsetYears: normalize.Int(row.Get(FieldStartOffsetYears)),
		StartDate:        normalize.Date(row.Get(FieldStartDate)),
		EndOffsetYears:   normalize.Int(row.Get(FieldEndOffsetYears)),
		EndDate:          normalize.Date(row.Get(FieldEndDate)),
		ScheduleSource:   trimmed(row, FieldScheduleSource),
		CapexShare:       normalize.Percentage(row.Get(FieldCapexShare)),
		ShareSource:      trimmed(row, FieldShareSource),
	}
	if raw := trimmed(row, FieldServiceBudget); raw != "" {
		budget := normalize.Amount(raw)
		svc.Budget = &budget
	}
	return svc
}

// DecodeUpdate builds an ExecutionUpdate from a canonical row. The parent
// linkage (ServiceID) is filled by the resolution step.
func DecodeUpdate(row Row) *models.ExecutionUpdate {
	upd := &models.ExecutionUpdate{
		Description:     trimmed(row, FieldDescription),
		ExecutedShare:   normalize.Percentage(row.Get(FieldExecutedShare)),
		UpdatedAt:       normalize.Date(row.Get(FieldUpdatedAt)),
		Responsible:     trimmed(row, FieldResponsible),
		Role:            trimmed(row, FieldRole),
		Department:      trimmed(row, FieldDepartment),
		RiskKind:        trimmed(row, FieldRiskKind),
		RiskDescription: trimmed(row, FieldRiskDescription),
	}
	if raw := trimmed(row, FieldAdjustedBudget); raw != "" {
		v := normalize.Amount(raw)
		upd.AdjustedBudget = &v
	}
	if raw := trimmed(row, FieldExecutedValue); raw != "" {
		v := normalize.Amount(raw)
		upd.ExecutedValue = &v
	}
	return upd
}
