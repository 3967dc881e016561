// Package sheet owns the tabular boundary of the engine: sheet-role
// matching, header normalization, projection onto the canonical column
// sets, and workbook read/write.
package sheet

// Role identifies which of the three dataset tables a sheet holds.
type Role string

const (
	RoleRegistrations Role = "registrations"
	RoleServices      Role = "services"
	RoleUpdates       Role = "updates"
)

// Canonical field names for the registrations sheet.
const (
	FieldPortZone         = "port_zone"
	FieldState            = "state"
	FieldConcessionObject = "concession_object"
	FieldContractKind     = "contract_kind"
	FieldTotalCapex       = "total_capex"
	FieldSignedAt         = "signed_at"
	FieldDescription      = "description"
	FieldCoordEast        = "coord_east"
	FieldCoordNorth       = "coord_north"
	FieldUTMZone          = "utm_zone"
)

// Canonical field names for the services sheet (natural-key columns are
// shared with the registrations sheet).
const (
	FieldServiceType      = "service_type"
	FieldPhase            = "phase"
	FieldServiceName      = "service_name"
	FieldStartOffsetYears = "start_offset_years"
	FieldStartDate        = "start_date"
	FieldEndOffsetYears   = "end_offset_years"
	FieldEndDate          = "end_date"
	FieldScheduleSource   = "schedule_source"
	FieldCapexShare       = "capex_share"
	FieldServiceBudget    = "service_budget"
	FieldShareSource      = "share_source"
)

// Canonical field names for the execution-updates sheet.
const (
	FieldExecutedShare   = "executed_share"
	FieldAdjustedBudget  = "adjusted_budget"
	FieldExecutedValue   = "executed_value"
	FieldUpdatedAt       = "updated_at"
	FieldResponsible     = "responsible"
	FieldRole            = "role"
	FieldDepartment      = "department"
	FieldRiskKind        = "risk_kind"
	FieldRiskDescription = "risk_description"
)

// sheetAliases lists the sheet names recognized for each role, in match
// order. The first entry doubles as the sheet name used on export.
var sheetAliases = map[Role][]string{
	RoleRegistrations: {
		"Tabela 00 - Cadastro", "Tabela 0 - Cadastro", "Planilha 00",
		"Cadastro", "Registrations", "00",
	},
	RoleServices: {
		"Tabela 01 - Serviços", "Planilha 01", "Serviços", "Servicos",
		"Services", "01",
	},
	RoleUpdates: {
		"Tabela 02 - Acompanhamento", "Tabela 02: Acompanhamento",
		"Planilha 02", "Acompanhamento", "Updates", "02",
	},
}

// Columns returns the canonical, ordered column set for a role. Every table
// handed to the engine is projected and padded to exactly this set.
func Columns(role Role) []string {
	switch role {
	case RoleRegistrations:
		return []string{
			FieldPortZone, FieldState, FieldConcessionObject,
			FieldContractKind, FieldTotalCapex, FieldSignedAt,
			FieldDescription, FieldCoordEast, FieldCoordNorth, FieldUTMZone,
		}
	case RoleServices:
		return []string{
			FieldPortZone, FieldState, FieldConcessionObject,
			FieldServiceType, FieldPhase, FieldServiceName, FieldDescription,
			FieldStartOffsetYears, FieldStartDate,
			FieldEndOffsetYears, FieldEndDate, FieldScheduleSource,
			FieldCapexShare, FieldServiceBudget, FieldShareSource,
		}
	case RoleUpdates:
		return []string{
			FieldPortZone, FieldState, FieldConcessionObject,
			FieldServiceType, FieldPhase, FieldServiceName, FieldDescription,
			FieldExecutedShare, FieldAdjustedBudget, FieldExecutedValue,
			FieldUpdatedAt, FieldResponsible, FieldRole, FieldDepartment,
			FieldRiskKind, FieldRiskDescription,
		}
	}
	return nil
}

// MatchRole matches a workbook sheet name against the known aliases.
func MatchRole(sheetName string) (Role, bool) {
	for _, role := range []Role{RoleRegistrations, RoleServices, RoleUpdates} {
		for _, alias := range sheetAliases[role] {
			if normalizeToken(sheetName) == normalizeToken(alias) {
				return role, true
			}
		}
	}
	return "", false
}

// ExportSheetName returns the sheet name written for a role on export.
func ExportSheetName(role Role) string {
	return sheetAliases[role][0]
}
