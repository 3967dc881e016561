package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/sheet"
)

func registrationRowFor(zone, state, object string) sheet.Row {
	return sheet.Row{
		sheet.FieldPortZone:         zone,
		sheet.FieldState:            state,
		sheet.FieldConcessionObject: object,
		sheet.FieldTotalCapex:       "1.000.000,00",
	}
}

func serviceRowFor(zone, state, object, name, share string) sheet.Row {
	return sheet.Row{
		sheet.FieldPortZone:         zone,
		sheet.FieldState:            state,
		sheet.FieldConcessionObject: object,
		sheet.FieldServiceType:      "Obra",
		sheet.FieldPhase:            "1",
		sheet.FieldServiceName:      name,
		sheet.FieldCapexShare:       share,
	}
}

func datasetOf(regs, svcs, upds []sheet.Row) *sheet.Dataset {
	return &sheet.Dataset{
		Registrations: sheet.Table{Role: sheet.RoleRegistrations, Columns: sheet.Columns(sheet.RoleRegistrations), Rows: regs},
		Services:      sheet.Table{Role: sheet.RoleServices, Columns: sheet.Columns(sheet.RoleServices), Rows: svcs},
		Updates:       sheet.Table{Role: sheet.RoleUpdates, Columns: sheet.Columns(sheet.RoleUpdates), Rows: upds},
	}
}

func fieldsOf(violations []models.Violation) []string {
	var out []string
	for _, v := range violations {
		out = append(out, v.Field)
	}
	return out
}

func TestValidateCleanDataset(t *testing.T) {
	v := NewValidator(false)
	ds := datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "40")},
		nil,
	)

	violations := v.ValidateDataset(ds)
	assert.Empty(t, violations)
}

func TestValidateContractKind(t *testing.T) {
	v := NewValidator(false)
	row := registrationRowFor("Porto de Santos", "SP", "Terminal 1")
	row[sheet.FieldContractKind] = "Permissão"

	violations := v.ValidateDataset(datasetOf([]sheet.Row{row}, nil, nil))
	require.Len(t, violations, 1)
	assert.Equal(t, sheet.FieldContractKind, violations[0].Field)
	assert.Equal(t, models.SeverityError, violations[0].Severity)
	assert.Contains(t, violations[0].Message, "Concession, Lease, Authorization")
}

func TestValidateContractKindSourceLabels(t *testing.T) {
	v := NewValidator(false)

	// Kinds as they appear in the source workbooks validate cleanly.
	for _, kind := range []string{"Concessão", "Arrendamento", "Autorização"} {
		row := registrationRowFor("Porto de Santos", "SP", "Terminal 1")
		row[sheet.FieldContractKind] = kind

		violations := v.ValidateDataset(datasetOf([]sheet.Row{row}, nil, nil))
		assert.Empty(t, violations, "kind %q", kind)
	}
}

func TestValidateStateCodes(t *testing.T) {
	v := NewValidator(false)

	// Multi-value cells are split and each code checked.
	row := registrationRowFor("Complexo", "SP, RJ", "Terminal 1")
	violations := v.ValidateDataset(datasetOf([]sheet.Row{row}, nil, nil))
	assert.Empty(t, violations)

	row = registrationRowFor("Complexo", "SP; XX", "Terminal 1")
	violations = v.ValidateDataset(datasetOf([]sheet.Row{row}, nil, nil))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "XX")
}

func TestValidateCapex(t *testing.T) {
	v := NewValidator(false)

	row := registrationRowFor("Porto de Santos", "SP", "Terminal 1")
	row[sheet.FieldTotalCapex] = "-5"
	violations := v.ValidateDataset(datasetOf([]sheet.Row{row}, nil, nil))
	require.Len(t, violations, 1)
	assert.Equal(t, models.SeverityWarning, violations[0].Severity)
	assert.False(t, models.HasErrors(violations), "non-positive capex warns but does not block")

	row[sheet.FieldTotalCapex] = "muito"
	violations = v.ValidateDataset(datasetOf([]sheet.Row{row}, nil, nil))
	require.Len(t, violations, 1)
	assert.Equal(t, models.SeverityError, violations[0].Severity)
}

func TestValidateDuplicateRegistrationKey(t *testing.T) {
	v := NewValidator(false)
	ds := datasetOf([]sheet.Row{
		registrationRowFor("Porto de Santos", "SP", "Terminal 1"),
		registrationRowFor("Porto de Santos", "SP", "Terminal 1"),
	}, nil, nil)

	violations := v.ValidateDataset(ds)
	require.Len(t, violations, 1)
	assert.Equal(t, 1, violations[0].Row)
	assert.Contains(t, violations[0].Message, "duplicate registration key")
}

func TestValidateServiceParentNotFound(t *testing.T) {
	v := NewValidator(false)
	ds := datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{serviceRowFor("Porto de Itaqui", "MA", "Berço 100", "Dragagem", "10")},
		nil,
	)

	violations := v.ValidateDataset(ds)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "registration not found")
}

func TestValidateServiceOfSkippedParent(t *testing.T) {
	// A parent row a sync would skip (non-positive capex) must not satisfy
	// the referential check for its children.
	v := NewValidator(false)
	reg := registrationRowFor("Porto de Santos", "SP", "Terminal 1")
	reg[sheet.FieldTotalCapex] = "0"
	ds := datasetOf(
		[]sheet.Row{reg},
		[]sheet.Row{serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "10")},
		nil,
	)

	violations := v.ValidateDataset(ds)
	assert.Contains(t, fieldsOf(violations), "key")
	assert.True(t, models.HasErrors(violations))
}

func TestValidateShareSum(t *testing.T) {
	v := NewValidator(false)
	ds := datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{
			serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "70"),
			serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Cais", "40"),
		},
		nil,
	)

	violations := v.ValidateDataset(ds)
	require.Len(t, violations, 1)
	assert.Equal(t, sheet.FieldCapexShare, violations[0].Field)
	assert.Contains(t, violations[0].Message, "110.00%")
	assert.Equal(t, 0, violations[0].Row, "reported at the parent's first service row")
}

func TestValidateShareSumExactlyFull(t *testing.T) {
	v := NewValidator(false)
	ds := datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{
			serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "60"),
			serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Cais", "40"),
		},
		nil,
	)

	assert.Empty(t, v.ValidateDataset(ds))
}

func TestValidateUpdateParentResolution(t *testing.T) {
	v := NewValidator(false)
	upd := sheet.Row{
		sheet.FieldPortZone:         "Porto de Santos",
		sheet.FieldState:            "SP",
		sheet.FieldConcessionObject: "Terminal 1",
		sheet.FieldServiceType:      "Obra",
		sheet.FieldPhase:            "1",
		sheet.FieldServiceName:      "Dragagem",
	}

	ds := datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "40")},
		[]sheet.Row{upd},
	)
	assert.Empty(t, v.ValidateDataset(ds))

	// Two services differing only in description make the ref ambiguous.
	svcA := serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "20")
	svcA[sheet.FieldDescription] = "fase inicial"
	svcB := serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "20")
	svcB[sheet.FieldDescription] = "fase final"
	ds = datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{svcA, svcB},
		[]sheet.Row{upd},
	)
	violations := v.ValidateDataset(ds)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "service not found")
}

func TestValidateExecutedOverBudget(t *testing.T) {
	upd := sheet.Row{
		sheet.FieldPortZone:         "Porto de Santos",
		sheet.FieldState:            "SP",
		sheet.FieldConcessionObject: "Terminal 1",
		sheet.FieldServiceType:      "Obra",
		sheet.FieldPhase:            "1",
		sheet.FieldServiceName:      "Dragagem",
		sheet.FieldAdjustedBudget:   "100.000,00",
		sheet.FieldExecutedValue:    "150.000,00",
	}
	ds := datasetOf(
		[]sheet.Row{registrationRowFor("Porto de Santos", "SP", "Terminal 1")},
		[]sheet.Row{serviceRowFor("Porto de Santos", "SP", "Terminal 1", "Dragagem", "40")},
		[]sheet.Row{upd},
	)

	violations := NewValidator(false).ValidateDataset(ds)
	require.Len(t, violations, 1)
	assert.Equal(t, models.SeverityWarning, violations[0].Severity)

	violations = NewValidator(true).ValidateDataset(ds)
	require.Len(t, violations, 1)
	assert.Equal(t, models.SeverityError, violations[0].Severity)
}
