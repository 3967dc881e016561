package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a discrete scope of work under one Registration, with its own
// schedule and budget share. Start/end dates and the budget are derived from
// the parent registration when offsets and a capex share are supplied.
type Service struct {
	ID               int64
	RegistrationID   int64
	ServiceType      string
	Phase            string
	Name             string
	Description      string
	StartOffsetYears *int
	StartDate        *time.Time
	EndOffsetYears   *int
	EndDate          *time.Time
	ScheduleSource   string
	CapexShare       *float64
	Budget           *decimal.Decimal
	ShareSource      string
}

// ServiceKey is the natural key of a Service: the parent registration key
// plus the four service-level discriminators.
type ServiceKey struct {
	RegistrationKey
	ServiceType string
	Phase       string
	Name        string
	Description string
}

// ServiceRef identifies a service without its description. Execution updates
// address their parent through this shorter tuple.
type ServiceRef struct {
	RegistrationKey
	ServiceType string
	Phase       string
	Name        string
}

// Ref returns the description-less form of the key.
func (k ServiceKey) Ref() ServiceRef {
	return ServiceRef{
		RegistrationKey: k.RegistrationKey,
		ServiceType:     k.ServiceType,
		Phase:           k.Phase,
		Name:            k.Name,
	}
}

// Complete reports whether the key has a complete parent key and the
// service-level components needed for matching.
func (k ServiceKey) Complete() bool {
	return k.RegistrationKey.Complete() && k.ServiceType != "" && k.Phase != "" && k.Name != ""
}

// Complete reports whether the ref has all components needed for matching.
func (r ServiceRef) Complete() bool {
	return r.RegistrationKey.Complete() && r.ServiceType != "" && r.Phase != "" && r.Name != ""
}
