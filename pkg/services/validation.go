package services

import (
	"fmt"
	"strings"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/normalize"
	"github.com/TheCarlosRamos/projeto-portos/pkg/sheet"
)

// shareSumTolerance absorbs float error when summing capex shares.
const shareSumTolerance = 1e-9

// Validator applies the structural and business rules to a dataset. It
// accumulates violations and never mutates rows or returns an error.
type Validator struct {
	// strictBudget upgrades "executed value exceeds adjusted budget" from a
	// warning to an error.
	strictBudget bool
}

// NewValidator creates a Validator. When strictBudget is set, an execution
// update whose executed value exceeds its re-adjusted budget blocks a
// replace-mode sync instead of being reported as a warning.
func NewValidator(strictBudget bool) *Validator {
	return &Validator{strictBudget: strictBudget}
}

// ValidateDataset validates all three sheets, including cross-sheet
// referential checks and the cross-row share-sum rule.
func (v *Validator) ValidateDataset(ds *sheet.Dataset) []models.Violation {
	var out []models.Violation

	accepted := map[models.RegistrationKey]struct{}{}
	out = append(out, v.ValidateRegistrations(ds.Registrations, accepted)...)

	serviceKeys := map[models.ServiceKey]struct{}{}
	serviceRefs := map[models.ServiceRef]int{}
	out = append(out, v.ValidateServices(ds.Services, accepted, serviceKeys, serviceRefs)...)
	out = append(out, v.ValidateUpdates(ds.Updates, serviceKeys, serviceRefs)...)

	return out
}

// ValidateRegistrations checks the registrations sheet. Keys of rows that a
// sync would accept (complete key, positive capex) are recorded in accepted
// for the downstream referential checks.
func (v *Validator) ValidateRegistrations(t sheet.Table, accepted map[models.RegistrationKey]struct{}) []models.Violation {
	var out []models.Violation
	seen := map[models.RegistrationKey]int{}

	for i, row := range t.Rows {
		key := sheet.RegistrationKeyOf(row)

		if kind := sheet.ContractKindOf(row); !models.ValidContractKind(kind) {
			out = append(out, errorAt(t, i, sheet.FieldContractKind,
				fmt.Sprintf("invalid contract kind: %s (options: %s)",
					kind, strings.Join(models.ContractKinds(), ", "))))
		}

		if rawState := strings.TrimSpace(row.Get(sheet.FieldState)); rawState != "" {
			for _, code := range splitStateCodes(rawState) {
				if !models.ValidStateCode(code) {
					out = append(out, errorAt(t, i, sheet.FieldState,
						fmt.Sprintf("invalid state code: %s", code)))
				}
			}
		}

		if raw := strings.TrimSpace(row.Get(sheet.FieldSignedAt)); raw != "" && normalize.Date(raw) == nil {
			out = append(out, errorAt(t, i, sheet.FieldSignedAt,
				"invalid date (use DD/MM/YYYY)"))
		}

		for _, field := range []string{sheet.FieldCoordEast, sheet.FieldCoordNorth, sheet.FieldUTMZone} {
			if raw := strings.TrimSpace(row.Get(field)); raw != "" && normalize.Float(raw) == nil {
				out = append(out, errorAt(t, i, field, "invalid numeric value"))
			}
		}

		capexOK := true
		rawCapex := strings.TrimSpace(row.Get(sheet.FieldTotalCapex))
		if rawCapex != "" {
			if capex, ok := normalize.ParseAmount(rawCapex); !ok {
				out = append(out, errorAt(t, i, sheet.FieldTotalCapex, "invalid numeric value"))
				capexOK = false
			} else if capex.Sign() <= 0 {
				out = append(out, warningAt(t, i, sheet.FieldTotalCapex,
					"total capex must be positive; row is skipped"))
				capexOK = false
			}
		} else {
			capexOK = false
		}

		if !key.Complete() {
			continue
		}

		if prev, dup := seen[key]; dup {
			out = append(out, errorAt(t, i, "key",
				fmt.Sprintf("duplicate registration key (first seen at row %d)", prev)))
			continue
		}
		seen[key] = i

		if capexOK {
			accepted[key] = struct{}{}
		}
	}

	return out
}

// ValidateServices checks the services sheet against the accepted
// registration keys, then applies the cross-row share-sum ceiling per
// parent. The sum rule runs only after every row of a parent is known.
func (v *Validator) ValidateServices(t sheet.Table, registrations map[models.RegistrationKey]struct{}, keys map[models.ServiceKey]struct{}, refs map[models.ServiceRef]int) []models.Violation {
	var out []models.Violation

	type shareAcc struct {
		sum      float64
		firstRow int
	}
	shares := map[models.RegistrationKey]*shareAcc{}

	for i, row := range t.Rows {
		key := sheet.ServiceKeyOf(row)
		if !key.Complete() {
			continue
		}

		if _, ok := registrations[key.RegistrationKey]; !ok {
			out = append(out, errorAt(t, i, "key",
				"registration not found for this service"))
		}

		if _, dup := keys[key]; dup {
			out = append(out, errorAt(t, i, "key", "duplicate service key"))
			continue
		}
		keys[key] = struct{}{}
		refs[key.Ref()]++

		rawShare := strings.TrimSpace(row.Get(sheet.FieldCapexShare))
		share := normalize.Percentage(rawShare)
		if rawShare != "" && share == nil {
			out = append(out, errorAt(t, i, sheet.FieldCapexShare, "invalid percentage"))
		}

		for _, field := range []string{sheet.FieldStartDate, sheet.FieldEndDate} {
			if raw := strings.TrimSpace(row.Get(field)); raw != "" && normalize.Date(raw) == nil {
				out = append(out, errorAt(t, i, field, "invalid date"))
			}
		}
		startDate := normalize.Date(row.Get(sheet.FieldStartDate))
		endDate := normalize.Date(row.Get(sheet.FieldEndDate))
		if startDate != nil && endDate != nil && !endDate.After(*startDate) {
			out = append(out, errorAt(t, i, sheet.FieldEndDate,
				"end date must be after start date"))
		}

		if share != nil {
			acc := shares[key.RegistrationKey]
			if acc == nil {
				acc = &shareAcc{firstRow: i}
				shares[key.RegistrationKey] = acc
			}
			acc.sum += *share
		}
	}

	for key, acc := range shares {
		if acc.sum > 1.0+shareSumTolerance {
			out = append(out, errorAt(t, acc.firstRow, sheet.FieldCapexShare,
				fmt.Sprintf("capex shares for registration %s/%s/%s sum to %.2f%% (over 100%%)",
					key.PortZone, key.State, key.ConcessionObject, acc.sum*100)))
		}
	}

	return out
}

// ValidateUpdates checks the execution-updates sheet against the service
// keys collected from the services sheet.
func (v *Validator) ValidateUpdates(t sheet.Table, serviceKeys map[models.ServiceKey]struct{}, serviceRefs map[models.ServiceRef]int) []models.Violation {
	var out []models.Violation

	for i, row := range t.Rows {
		ref := sheet.ServiceRefOf(row)
		if !ref.Complete() {
			continue
		}

		if !updateParentResolves(row, serviceKeys, serviceRefs) {
			out = append(out, errorAt(t, i, "key",
				"service not found for this execution update"))
		}

		rawShare := strings.TrimSpace(row.Get(sheet.FieldExecutedShare))
		if rawShare != "" && normalize.Percentage(rawShare) == nil {
			out = append(out, errorAt(t, i, sheet.FieldExecutedShare, "invalid percentage"))
		}

		if raw := strings.TrimSpace(row.Get(sheet.FieldUpdatedAt)); raw != "" && normalize.Date(raw) == nil {
			out = append(out, errorAt(t, i, sheet.FieldUpdatedAt, "invalid date"))
		}

		executed, okExec := normalize.ParseAmount(row.Get(sheet.FieldExecutedValue))
		budget, okBudget := normalize.ParseAmount(row.Get(sheet.FieldAdjustedBudget))
		if okExec && okBudget && executed.GreaterThan(budget) {
			viol := warningAt(t, i, sheet.FieldExecutedValue,
				fmt.Sprintf("executed value %s exceeds adjusted budget %s",
					executed.StringFixed(2), budget.StringFixed(2)))
			if v.strictBudget {
				viol.Severity = models.SeverityError
			}
			out = append(out, viol)
		}
	}

	return out
}

// updateParentResolves tries the full service key (using the update's
// description column) first, then the description-less reference, which
// must be unambiguous.
func updateParentResolves(row sheet.Row, keys map[models.ServiceKey]struct{}, refs map[models.ServiceRef]int) bool {
	if _, ok := keys[sheet.ServiceKeyOf(row)]; ok {
		return true
	}
	return refs[sheet.ServiceRefOf(row)] == 1
}

// splitStateCodes splits a multi-value state cell on commas and semicolons.
func splitStateCodes(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var codes []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

func errorAt(t sheet.Table, row int, field, msg string) models.Violation {
	return models.Violation{
		Sheet:    string(t.Role),
		Row:      row,
		Field:    field,
		Message:  msg,
		Severity: models.SeverityError,
	}
}

func warningAt(t sheet.Table, row int, field, msg string) models.Violation {
	return models.Violation{
		Sheet:    string(t.Role),
		Row:      row,
		Field:    field,
		Message:  msg,
		Severity: models.SeverityWarning,
	}
}
