package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a weight-priced purchase: gross weight less a deduction
// (tare, moisture, impurities) times a price per weight unit.
type Purchase struct {
	CreatedAt       time.Time
	SessionID       *string
	ID              string
	Supplier        string
	Product         string
	GrossWeight     decimal.Decimal
	DeductionWeight decimal.Decimal
	NetWeight       decimal.Decimal
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
}

// Validate checks weights and price. It does not check names.
func (p *Purchase) Validate() error {
	if err := ValidateDeduction(p.GrossWeight, p.DeductionWeight); err != nil {
		return err
	}
	return ValidateUnitPrice(p.UnitPrice)
}

// Price fills NetWeight and Total. Each figure is rounded at its own stage:
// the net weight to 1 place, then the total from that net weight to 2 places.
func (p *Purchase) Price() {
	p.NetWeight = NetWeight(p.GrossWeight, p.DeductionWeight)
	p.Total = TransactionTotal(p.NetWeight, p.UnitPrice)
}
