package services

import (
	"github.com/shopspring/decimal"

	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/normalize"
)

// DeriveService fills a service's computed fields from its parent
// registration: absolute start/end dates from the contract signature date
// plus the year offsets, and the budget from the parent's total capex times
// the capex share. The derived budget wins over any value carried in the
// source row. A nil parent leaves the service untouched; the caller treats
// that as an unresolved reference upstream.
func DeriveService(svc *models.Service, parent *models.Registration) {
	if svc == nil || parent == nil {
		return
	}

	if parent.SignedAt != nil {
		if svc.StartOffsetYears != nil {
			start := normalize.AddYears(*parent.SignedAt, *svc.StartOffsetYears)
			svc.StartDate = &start
		}
		if svc.EndOffsetYears != nil {
			end := normalize.AddYears(*parent.SignedAt, *svc.EndOffsetYears)
			svc.EndDate = &end
		}
	}

	if svc.CapexShare != nil && parent.TotalCapex.Sign() > 0 {
		budget := parent.TotalCapex.
			Mul(decimal.NewFromFloat(*svc.CapexShare)).
			Round(2)
		svc.Budget = &budget
	}
}
