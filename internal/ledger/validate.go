package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/zeronetech/boq-procure/internal/model"
)

// OrderLine is one proposed purchase-order line, addressed by boq_ref.
type OrderLine struct {
	BOQRef    string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

// Validator checks proposed order lines against the balance and rate-ceiling
// rules. It never mutates anything.
type Validator struct {
	tolerancePct decimal.Decimal
}

// NewValidator builds a validator whose rate ceiling is rate * (1 + pct/100),
// rounded to 2 decimals before comparison.
func NewValidator(tolerancePct decimal.Decimal) *Validator {
	return &Validator{tolerancePct: tolerancePct}
}

// MaxRate is the highest unit price allowed for an item.
func (v *Validator) MaxRate(item *model.LineItem) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(v.tolerancePct.Div(decimal.NewFromInt(100)))
	return item.Rate.Mul(factor).Round(2)
}

// Validate checks every line and returns all violations found across the
// batch. Lines with qty <= 0 are excluded from the order, not an error.
func (v *Validator) Validate(items []model.LineItem, lines []OrderLine) []Violation {
	byRef := make(map[string]*model.LineItem, len(items))
	for i := range items {
		byRef[items[i].BOQRef] = &items[i]
	}

	var violations []Violation
	for _, line := range lines {
		if !line.Qty.IsPositive() {
			continue
		}
		item, ok := byRef[line.BOQRef]
		if !ok {
			violations = append(violations, Violation{
				Kind:   ViolationUnknownItem,
				BOQRef: line.BOQRef,
			})
			continue
		}
		if balance := Balance(item); line.Qty.GreaterThan(balance) {
			violations = append(violations, Violation{
				Kind:    ViolationOverBalance,
				BOQRef:  line.BOQRef,
				Balance: balance,
				Qty:     line.Qty,
			})
		} else if maxRate := v.MaxRate(item); line.UnitPrice.Round(2).GreaterThan(maxRate) {
			violations = append(violations, Violation{
				Kind:       ViolationRateExceeded,
				BOQRef:     line.BOQRef,
				MaxAllowed: maxRate,
				UnitPrice:  line.UnitPrice,
			})
		}
	}
	return violations
}
