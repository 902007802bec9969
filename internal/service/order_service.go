package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/model"
	"github.com/zeronetech/boq-procure/internal/sequence"
)

// LocationDirectory resolves location codes for PO number issuance.
type LocationDirectory interface {
	GetLocation(ctx context.Context, code string) (*model.Location, error)
}

// OrderService orchestrates order submission: validate the whole batch,
// apply the delivery allocations atomically, and hand out PO numbers.
type OrderService struct {
	items     ledger.LineItemStore
	ledger    *ledger.Ledger
	validator *ledger.Validator
	sequence  *sequence.Allocator
	locations LocationDirectory
}

func NewOrderService(
	items ledger.LineItemStore,
	led *ledger.Ledger,
	validator *ledger.Validator,
	seq *sequence.Allocator,
	locations LocationDirectory,
) *OrderService {
	return &OrderService{
		items:     items,
		ledger:    led,
		validator: validator,
		sequence:  seq,
		locations: locations,
	}
}

type OrderLineInput struct {
	BOQRef    string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

type CommitOrderInput struct {
	ProjectID uuid.UUID
	// PONumber is supplied by the caller, who may have allocated it well
	// before committing. It is never regenerated here; an allocated number
	// the caller abandons simply stays unused.
	PONumber string
	Slot     int
	Lines    []OrderLineInput
}

type CommittedLine struct {
	BOQRef    string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
	Balance   decimal.Decimal
}

type OrderResult struct {
	PONumber string
	Lines    []CommittedLine
	Subtotal decimal.Decimal
}

// ValidateOrder checks a proposed batch against current balances and the rate
// ceiling, returning every violation found. Advisory: balances can move
// between this call and CommitOrder, which re-validates on its own.
func (s *OrderService) ValidateOrder(ctx context.Context, projectID uuid.UUID, lines []OrderLineInput) ([]ledger.Violation, error) {
	items, err := s.items.ListItems(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: project has no line items", ErrNotFound)
	}
	return s.validator.Validate(items, toOrderLines(lines)), nil
}

// CommitOrder runs the full submission: batch validation first (abort with
// the complete violation list, zero mutation), then all allocations into the
// chosen slot as one atomic unit.
func (s *OrderService) CommitOrder(ctx context.Context, input CommitOrderInput) (*OrderResult, error) {
	if strings.TrimSpace(input.PONumber) == "" {
		return nil, fmt.Errorf("%w: po_number is required", ErrInvalidInput)
	}
	if input.Slot < 1 || input.Slot > model.DeliverySlots {
		return nil, fmt.Errorf("%w: delivery slot must be between 1 and %d", ErrInvalidInput, model.DeliverySlots)
	}

	items, err := s.items.ListItems(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: project has no line items", ErrNotFound)
	}

	if violations := s.validator.Validate(items, toOrderLines(input.Lines)); len(violations) > 0 {
		return nil, &ledger.ValidationError{Violations: violations}
	}

	byRef := make(map[string]uuid.UUID, len(items))
	for _, item := range items {
		byRef[item.BOQRef] = item.ID
	}

	allocs := make([]ledger.Allocation, 0, len(input.Lines))
	active := make([]OrderLineInput, 0, len(input.Lines))
	for _, line := range input.Lines {
		if !line.Qty.IsPositive() {
			continue
		}
		itemID, ok := byRef[line.BOQRef]
		if !ok {
			return nil, fmt.Errorf("%w: boq_ref %q", ErrNotFound, line.BOQRef)
		}
		allocs = append(allocs, ledger.Allocation{ItemID: itemID, Slot: input.Slot, Qty: line.Qty})
		active = append(active, line)
	}
	if len(allocs) == 0 {
		return nil, fmt.Errorf("%w: no lines with positive quantity", ErrInvalidInput)
	}

	snapshots, err := s.ledger.Apply(ctx, allocs)
	if err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return nil, err
	}

	result := &OrderResult{PONumber: input.PONumber, Subtotal: decimal.Zero}
	for i, line := range active {
		amount := line.Qty.Mul(line.UnitPrice).Round(2)
		result.Subtotal = result.Subtotal.Add(amount)
		result.Lines = append(result.Lines, CommittedLine{
			BOQRef:    line.BOQRef,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			Amount:    amount,
			Balance:   snapshots[i].Balance,
		})
	}
	return result, nil
}

// AllocatePONumber issues and consumes the next serial for the location.
func (s *OrderService) AllocatePONumber(ctx context.Context, locationCode string) (string, error) {
	if err := s.requireLocation(ctx, locationCode); err != nil {
		return "", err
	}
	number, err := s.sequence.Allocate(ctx, locationCode)
	if err != nil {
		if errors.Is(err, sequence.ErrConflict) {
			return "", fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return "", err
	}
	return number, nil
}

// PreviewPONumber formats the upcoming number without reserving it.
func (s *OrderService) PreviewPONumber(ctx context.Context, locationCode string) (string, error) {
	if err := s.requireLocation(ctx, locationCode); err != nil {
		return "", err
	}
	return s.sequence.Preview(ctx, locationCode)
}

func (s *OrderService) requireLocation(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: location code is required", ErrInvalidInput)
	}
	if _, err := s.locations.GetLocation(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: location %q", ErrNotFound, code)
		}
		return err
	}
	return nil
}

func toOrderLines(lines []OrderLineInput) []ledger.OrderLine {
	out := make([]ledger.OrderLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ledger.OrderLine{
			BOQRef:    line.BOQRef,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return out
}
