package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
)

func santosKey() models.RegistrationKey {
	return models.RegistrationKey{
		PortZone:         "Porto de Santos",
		State:            "SP",
		ConcessionObject: "Terminal 1",
	}
}

func dredgingKey(description string) models.ServiceKey {
	return models.ServiceKey{
		RegistrationKey: santosKey(),
		ServiceType:     "Obra",
		Phase:           "1",
		Name:            "Dragagem",
		Description:     description,
	}
}

func TestKeyIndexRegistrations(t *testing.T) {
	ix := NewKeyIndex()

	_, ok := ix.FindRegistration(santosKey())
	assert.False(t, ok)

	ix.AddRegistration(santosKey(), 7)
	id, ok := ix.FindRegistration(santosKey())
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	other := santosKey()
	other.State = "RJ"
	_, ok = ix.FindRegistration(other)
	assert.False(t, ok)
}

func TestKeyIndexServices(t *testing.T) {
	ix := NewKeyIndex()
	ix.AddService(dredgingKey("fase inicial"), 11)

	id, ok := ix.FindService(dredgingKey("fase inicial"))
	assert.True(t, ok)
	assert.Equal(t, int64(11), id)

	_, ok = ix.FindService(dredgingKey("outra fase"))
	assert.False(t, ok)

	// The description-less ref resolves while it is unique.
	id, ok = ix.FindServiceByRef(dredgingKey("").Ref())
	assert.True(t, ok)
	assert.Equal(t, int64(11), id)
}

func TestKeyIndexAmbiguousRef(t *testing.T) {
	ix := NewKeyIndex()
	ix.AddService(dredgingKey("fase inicial"), 11)
	ix.AddService(dredgingKey("fase final"), 12)

	// Two services share the ref; neither may be picked arbitrarily.
	_, ok := ix.FindServiceByRef(dredgingKey("").Ref())
	assert.False(t, ok)

	// The full keys still resolve.
	id, ok := ix.FindService(dredgingKey("fase final"))
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
}
