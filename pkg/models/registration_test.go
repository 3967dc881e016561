package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidContractKind(t *testing.T) {
	for _, kind := range ContractKinds() {
		assert.True(t, ValidContractKind(kind))
	}
	assert.False(t, ValidContractKind(""))
	assert.False(t, ValidContractKind("Concessão"), "source-language labels must be translated before validation")
	assert.False(t, ValidContractKind("concession"), "matching is case-sensitive")
}

func TestValidStateCode(t *testing.T) {
	assert.True(t, ValidStateCode("SP"))
	assert.True(t, ValidStateCode("TO"))
	assert.False(t, ValidStateCode("sp"))
	assert.False(t, ValidStateCode("XX"))
	assert.False(t, ValidStateCode(""))
}

func TestRegistrationKeyComplete(t *testing.T) {
	key := RegistrationKey{PortZone: "Porto de Santos", State: "SP", ConcessionObject: "Terminal 1"}
	assert.True(t, key.Complete())

	key.State = ""
	assert.False(t, key.Complete())
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Violation{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]Violation{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}
