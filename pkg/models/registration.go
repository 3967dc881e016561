// Package models contains domain types for the concession registry.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractKind constants. Rows with a blank kind default to
// ContractConcession; any other value outside this set is a violation.
const (
	ContractConcession    = "Concession"
	ContractLease         = "Lease"
	ContractAuthorization = "Authorization"
)

// ContractKinds lists the accepted contract kinds in display order.
func ContractKinds() []string {
	return []string{ContractConcession, ContractLease, ContractAuthorization}
}

// ValidContractKind reports whether kind is one of the accepted contract kinds.
func ValidContractKind(kind string) bool {
	switch kind {
	case ContractConcession, ContractLease, ContractAuthorization:
		return true
	}
	return false
}

var stateCodes = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// ValidStateCode reports whether code is a known two-letter state code.
func ValidStateCode(code string) bool {
	_, ok := stateCodes[code]
	return ok
}

// Registration is a port-concession contract record, the top level of the
// hierarchy. Rows are identified by their natural key; the ID is a store
// surrogate that never crosses the import boundary.
type Registration struct {
	ID               int64
	PortZone         string
	State            string
	ConcessionObject string
	ContractKind     string
	TotalCapex       decimal.Decimal
	SignedAt         *time.Time
	Description      string
	CoordEast        *float64
	CoordNorth       *float64
	UTMZone          *int
}

// RegistrationKey is the natural key of a Registration.
type RegistrationKey struct {
	PortZone         string
	State            string
	ConcessionObject string
}

// Key returns the registration's natural key.
func (r *Registration) Key() RegistrationKey {
	return RegistrationKey{
		PortZone:         r.PortZone,
		State:            r.State,
		ConcessionObject: r.ConcessionObject,
	}
}

// Complete reports whether every key component is present. Rows with an
// incomplete key cannot be matched and are skipped by the ingestion paths.
func (k RegistrationKey) Complete() bool {
	return k.PortZone != "" && k.State != "" && k.ConcessionObject != ""
}

// String renders the key for log lines and violation messages.
func (k RegistrationKey) String() string {
	return k.PortZone + "/" + k.State + "/" + k.ConcessionObject
}
