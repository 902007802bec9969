package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zeronetech/boq-procure/internal/model"
)

// LineItemStore is the durable store the ledger runs against.
//
// ApplyDeliveries must be all-or-nothing: either every update lands or none
// does. Each update carries the TotalDelivered the writer read (GuardTotal);
// the store must reject the whole batch with ErrStaleItem if any row's stored
// total no longer matches, so the ledger can re-read and retry.
type LineItemStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*model.LineItem, error)
	ListItems(ctx context.Context, projectID uuid.UUID) ([]model.LineItem, error)
	ApplyDeliveries(ctx context.Context, updates []DeliveryUpdate) error
}

// DeliveryUpdate is one guarded write against a line item's delivery slots.
type DeliveryUpdate struct {
	ItemID         uuid.UUID
	Delivered      [model.DeliverySlots]decimal.Decimal
	TotalDelivered decimal.Decimal
	Balance        decimal.Decimal
	GuardTotal     decimal.Decimal
}

// Allocation is a request to commit qty against one slot of one item.
type Allocation struct {
	ItemID uuid.UUID
	Slot   int
	Qty    decimal.Decimal
}

// Ledger applies delivery allocations to line items. All writes re-read the
// current row and go through a guarded update; a bounded number of retries
// absorbs concurrent writers before giving up with ErrConflict.
type Ledger struct {
	store      LineItemStore
	maxRetries int
}

func New(store LineItemStore, maxRetries int) *Ledger {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Ledger{store: store, maxRetries: maxRetries}
}

// TotalDelivered sums the item's delivery slots.
func TotalDelivered(item *model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, qty := range item.Delivered {
		total = total.Add(qty)
	}
	return total
}

// Balance is the quantity still open on the item: boq_qty minus the sum of
// the delivery slots. Pure; callers get a point-in-time snapshot that a
// concurrent allocation can invalidate.
func Balance(item *model.LineItem) decimal.Decimal {
	return item.BOQQty.Sub(TotalDelivered(item))
}

// Balance reads the item and returns its current remaining balance.
func (l *Ledger) Balance(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	item, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return Balance(item), nil
}

// Allocate adds qty to one delivery slot of one item and returns the updated
// snapshot. The balance check runs against the row as read inside this call,
// not against anything the caller computed earlier.
func (l *Ledger) Allocate(ctx context.Context, itemID uuid.UUID, slot int, qty decimal.Decimal) (*model.LineItem, error) {
	items, err := l.Apply(ctx, []Allocation{{ItemID: itemID, Slot: slot, Qty: qty}})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Apply commits a batch of allocations as one atomic unit. Every allocation
// is re-checked against a fresh read of its item inside each attempt, so a
// balance that moved since the caller validated is caught here. On success
// the updated snapshots are returned in allocation order.
func (l *Ledger) Apply(ctx context.Context, allocs []Allocation) ([]model.LineItem, error) {
	for _, alloc := range allocs {
		if alloc.Slot < 1 || alloc.Slot > model.DeliverySlots {
			return nil, fmt.Errorf("%w: slot %d", ErrInvalidSlot, alloc.Slot)
		}
		if !alloc.Qty.IsPositive() {
			return nil, fmt.Errorf("%w: got %s", ErrInvalidQty, alloc.Qty)
		}
	}

	for attempt := 0; attempt < l.maxRetries; attempt++ {
		snapshots, updates, err := l.prepare(ctx, allocs)
		if err != nil {
			return nil, err
		}
		if err := l.store.ApplyDeliveries(ctx, updates); err != nil {
			if errors.Is(err, ErrStaleItem) {
				continue
			}
			return nil, err
		}
		return snapshots, nil
	}
	return nil, ErrConflict
}

func (l *Ledger) prepare(ctx context.Context, allocs []Allocation) ([]model.LineItem, []DeliveryUpdate, error) {
	snapshots := make([]model.LineItem, 0, len(allocs))
	updates := make([]DeliveryUpdate, 0, len(allocs))
	violations := make([]Violation, 0)

	// An order may touch the same item on several lines; allocations are
	// folded into one working copy per item so the balance check sees the
	// combined demand.
	working := make(map[uuid.UUID]*model.LineItem)
	guards := make(map[uuid.UUID]decimal.Decimal)

	for _, alloc := range allocs {
		item, ok := working[alloc.ItemID]
		if !ok {
			fresh, err := l.store.GetItem(ctx, alloc.ItemID)
			if err != nil {
				return nil, nil, err
			}
			guards[alloc.ItemID] = TotalDelivered(fresh)
			item = fresh
			working[alloc.ItemID] = item
		}

		if alloc.Qty.GreaterThan(Balance(item)) {
			violations = append(violations, Violation{
				Kind:    ViolationOverBalance,
				BOQRef:  item.BOQRef,
				Balance: Balance(item),
				Qty:     alloc.Qty,
			})
			continue
		}

		item.Delivered[alloc.Slot-1] = item.Delivered[alloc.Slot-1].Add(alloc.Qty)
		item.TotalDelivered = TotalDelivered(item)
		item.Balance = Balance(item)
		snapshots = append(snapshots, *item)
	}

	if len(violations) > 0 {
		return nil, nil, &ValidationError{Violations: violations}
	}

	for id, item := range working {
		updates = append(updates, DeliveryUpdate{
			ItemID:         id,
			Delivered:      item.Delivered,
			TotalDelivered: item.TotalDelivered,
			Balance:        item.Balance,
			GuardTotal:     guards[id],
		})
	}
	return snapshots, updates, nil
}
