package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliverySlots is the number of delivery tranches tracked per BOQ line.
const DeliverySlots = 10

// LineItem is one row of a project's bill of quantities. Delivered holds the
// quantity committed against each of the ten delivery slots; TotalDelivered
// and Balance are always recomputed from the slots, never trusted on their own.
type LineItem struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	BOQRef      string
	Description string
	Make        string
	Model       string
	Unit        string
	BOQQty      decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Delivered   [DeliverySlots]decimal.Decimal
	TotalDelivered decimal.Decimal
	Balance        decimal.Decimal
	CreatedAt      time.Time
}
