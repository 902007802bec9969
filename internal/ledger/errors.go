package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound = errors.New("line item not found")
	ErrInvalidSlot  = errors.New("delivery slot out of range")
	ErrInvalidQty   = errors.New("quantity must be positive")

	// ErrConflict is returned when concurrent writers kept invalidating the
	// read snapshot for longer than the bounded retry allows.
	ErrConflict = errors.New("conflicting concurrent update, retries exhausted")

	// ErrStaleItem is returned by stores when a guarded write found the row
	// changed since it was read. Callers re-read and retry.
	ErrStaleItem = errors.New("stale line item snapshot")
)

type ViolationKind string

const (
	ViolationOverBalance  ViolationKind = "OVER_BALANCE"
	ViolationRateExceeded ViolationKind = "RATE_EXCEEDED"
	ViolationUnknownItem  ViolationKind = "UNKNOWN_ITEM"
)

// Violation describes one rejected order line. Balance/Qty are set for
// OVER_BALANCE, MaxAllowed/UnitPrice for RATE_EXCEEDED.
type Violation struct {
	Kind       ViolationKind   `json:"kind"`
	BOQRef     string          `json:"boq_ref"`
	Balance    decimal.Decimal `json:"balance,omitempty"`
	Qty        decimal.Decimal `json:"qty,omitempty"`
	MaxAllowed decimal.Decimal `json:"max_allowed,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case ViolationOverBalance:
		return fmt.Sprintf("%s: balance %s, tried %s", v.BOQRef, v.Balance, v.Qty)
	case ViolationRateExceeded:
		return fmt.Sprintf("%s: allowed rate %s, entered %s", v.BOQRef, v.MaxAllowed, v.UnitPrice)
	default:
		return fmt.Sprintf("%s: unknown item", v.BOQRef)
	}
}

// ValidationError carries every violation found across a batch so the caller
// can present the complete list rather than the first failure.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "order validation failed: " + strings.Join(parts, "; ")
}
