package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/model"
	"github.com/zeronetech/boq-procure/internal/repository/memory"
	"github.com/zeronetech/boq-procure/internal/sequence"
	"github.com/zeronetech/boq-procure/internal/service"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	items     *memory.LineItemStore
	orders    *service.OrderService
	projectID uuid.UUID
	itemA     model.LineItem
	itemB     model.LineItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	items := memory.NewLineItemStore()
	counters := memory.NewCounterStore()
	directory := memory.NewDirectoryStore()
	directory.AddLocation("HR", "Haryana")

	led := ledger.New(items, 5)
	validator := ledger.NewValidator(decimal.NewFromInt(10))
	allocator := sequence.NewAllocator(counters, "ZTPL", 3, 5, func() time.Time {
		return time.Date(2024, 4, 5, 10, 0, 0, 0, time.UTC)
	})

	projectID := uuid.New()
	itemA := items.Put(model.LineItem{
		ProjectID: projectID,
		BOQRef:    "A-1",
		BOQQty:    dec("100.00"),
		Rate:      dec("100.00"),
		Balance:   dec("100.00"),
	})
	itemB := items.Put(model.LineItem{
		ProjectID: projectID,
		BOQRef:    "A-2",
		BOQQty:    dec("50.00"),
		Rate:      dec("20.00"),
		Balance:   dec("50.00"),
	})

	return &fixture{
		items:     items,
		orders:    service.NewOrderService(items, led, validator, allocator, directory),
		projectID: projectID,
		itemA:     itemA,
		itemB:     itemB,
	}
}

func TestCommitOrderAppliesAllLines(t *testing.T) {
	f := newFixture(t)

	result, err := f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      1,
		Lines: []service.OrderLineInput{
			{BOQRef: "A-1", Qty: dec("30"), UnitPrice: dec("100.00")},
			{BOQRef: "A-2", Qty: dec("10"), UnitPrice: dec("20.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-001", result.PONumber)
	require.Len(t, result.Lines, 2)
	assert.True(t, result.Lines[0].Amount.Equal(dec("3000.00")))
	assert.True(t, result.Lines[0].Balance.Equal(dec("70")))
	assert.True(t, result.Subtotal.Equal(dec("3200.00")))

	itemA, err := f.items.GetItem(context.Background(), f.itemA.ID)
	require.NoError(t, err)
	assert.True(t, itemA.Delivered[0].Equal(dec("30")))
	assert.True(t, itemA.Balance.Equal(dec("70")))
}

func TestCommitOrderSkipsZeroQtyLines(t *testing.T) {
	f := newFixture(t)

	result, err := f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      2,
		Lines: []service.OrderLineInput{
			{BOQRef: "A-1", Qty: dec("30"), UnitPrice: dec("100.00")},
			{BOQRef: "A-2", Qty: decimal.Zero, UnitPrice: dec("20.00")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)

	itemB, err := f.items.GetItem(context.Background(), f.itemB.ID)
	require.NoError(t, err)
	assert.True(t, itemB.TotalDelivered.IsZero())
}

func TestCommitOrderAbortsOnViolationWithoutMutation(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      1,
		Lines: []service.OrderLineInput{
			{BOQRef: "A-1", Qty: dec("30"), UnitPrice: dec("100.00")},
			{BOQRef: "A-2", Qty: dec("60"), UnitPrice: dec("20.00")},
		},
	})
	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Violations, 1)
	assert.Equal(t, ledger.ViolationOverBalance, validationErr.Violations[0].Kind)
	assert.Equal(t, "A-2", validationErr.Violations[0].BOQRef)

	// The valid line must not have been applied either.
	for _, id := range []uuid.UUID{f.itemA.ID, f.itemB.ID} {
		item, err := f.items.GetItem(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, item.TotalDelivered.IsZero())
	}
}

func TestCommitOrderRevalidatesAgainstFreshBalance(t *testing.T) {
	f := newFixture(t)

	// An advisory validation passes for 80 units.
	violations, err := f.orders.ValidateOrder(context.Background(), f.projectID, []service.OrderLineInput{
		{BOQRef: "A-1", Qty: dec("80"), UnitPrice: dec("100.00")},
	})
	require.NoError(t, err)
	assert.Empty(t, violations)

	// Another order consumes most of the balance before the first commits.
	_, err = f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      1,
		Lines:     []service.OrderLineInput{{BOQRef: "A-1", Qty: dec("50"), UnitPrice: dec("100.00")}},
	})
	require.NoError(t, err)

	// The delayed commit is checked against the fresh balance, not the
	// earlier advisory result.
	_, err = f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-002",
		Slot:      2,
		Lines:     []service.OrderLineInput{{BOQRef: "A-1", Qty: dec("80"), UnitPrice: dec("100.00")}},
	})
	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCommitOrderInputChecks(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		Slot:      1,
		Lines:     []service.OrderLineInput{{BOQRef: "A-1", Qty: dec("1"), UnitPrice: dec("100.00")}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      11,
		Lines:     []service.OrderLineInput{{BOQRef: "A-1", Qty: dec("1"), UnitPrice: dec("100.00")}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: f.projectID,
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      1,
		Lines:     []service.OrderLineInput{{BOQRef: "A-1", Qty: decimal.Zero, UnitPrice: dec("100.00")}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.orders.CommitOrder(context.Background(), service.CommitOrderInput{
		ProjectID: uuid.New(),
		PONumber:  "ZTPL-HR/2K24-2K25-001",
		Slot:      1,
		Lines:     []service.OrderLineInput{{BOQRef: "A-1", Qty: dec("1"), UnitPrice: dec("100.00")}},
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAllocatePONumber(t *testing.T) {
	f := newFixture(t)

	first, err := f.orders.AllocatePONumber(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-001", first)

	second, err := f.orders.AllocatePONumber(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-002", second)

	_, err = f.orders.AllocatePONumber(context.Background(), "XX")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPreviewPONumberIsNonBinding(t *testing.T) {
	f := newFixture(t)

	previewed, err := f.orders.PreviewPONumber(context.Background(), "HR")
	require.NoError(t, err)

	allocated, err := f.orders.AllocatePONumber(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, previewed, allocated)

	// A number allocated and then abandoned stays burned: the next
	// allocation moves on, leaving a gap for the abandoned serial.
	abandoned, err := f.orders.AllocatePONumber(context.Background(), "HR")
	require.NoError(t, err)
	next, err := f.orders.AllocatePONumber(context.Background(), "HR")
	require.NoError(t, err)
	assert.NotEqual(t, abandoned, next)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-003", next)
}
