package sequence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeronetech/boq-procure/internal/repository/memory"
	"github.com/zeronetech/boq-procure/internal/sequence"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newAllocator(store sequence.CounterStore, now time.Time) *sequence.Allocator {
	return sequence.NewAllocator(store, "ZTPL", 3, 10, fixedNow(now))
}

func TestFiscalYearLabel(t *testing.T) {
	cases := []struct {
		date  string
		label string
	}{
		{"2024-04-01", "2K24-2K25"},
		{"2024-04-05", "2K24-2K25"},
		{"2024-12-31", "2K24-2K25"},
		{"2025-01-15", "2K24-2K25"},
		{"2025-03-31", "2K24-2K25"},
		{"2025-04-01", "2K25-2K26"},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			date, err := time.Parse("2006-01-02", tc.date)
			require.NoError(t, err)
			assert.Equal(t, tc.label, sequence.FiscalYearLabel(date))
		})
	}
}

func TestAllocateFreshLocation(t *testing.T) {
	store := memory.NewCounterStore()
	allocator := newAllocator(store, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	first, err := allocator.Allocate(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-001", first)

	second, err := allocator.Allocate(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-002", second)
}

func TestAllocateIndependentPerLocation(t *testing.T) {
	store := memory.NewCounterStore()
	allocator := newAllocator(store, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	hr, err := allocator.Allocate(context.Background(), "HR")
	require.NoError(t, err)
	dl, err := allocator.Allocate(context.Background(), "DL")
	require.NoError(t, err)

	assert.Equal(t, "ZTPL-HR/2K24-2K25-001", hr)
	assert.Equal(t, "ZTPL-DL/2K24-2K25-001", dl)
}

func TestSerialWidthGrowsPastPadding(t *testing.T) {
	store := memory.NewCounterStore()
	_, err := store.InitSerial(context.Background(), "HR", 999)
	require.NoError(t, err)

	allocator := newAllocator(store, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))
	number, err := allocator.Allocate(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-1000", number)
}

func TestPreviewDoesNotConsume(t *testing.T) {
	store := memory.NewCounterStore()
	allocator := newAllocator(store, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	previewed, err := allocator.Preview(context.Background(), "HR")
	require.NoError(t, err)
	again, err := allocator.Preview(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, previewed, again)

	// With no intervening allocation, preview and allocate agree.
	allocated, err := allocator.Allocate(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, previewed, allocated)

	// A later preview reflects the consumed serial.
	next, err := allocator.Preview(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, "ZTPL-HR/2K24-2K25-002", next)
}

func TestConcurrentAllocationsAreUnique(t *testing.T) {
	store := memory.NewCounterStore()
	allocator := sequence.NewAllocator(store, "ZTPL", 3, 1000, fixedNow(time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)))

	const callers = 50
	var wg sync.WaitGroup
	numbers := make(chan string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := allocator.Allocate(context.Background(), "HR")
			assert.NoError(t, err)
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]struct{}, callers)
	for number := range numbers {
		seen[number] = struct{}{}
	}
	assert.Len(t, seen, callers)

	serial, exists, err := store.GetSerial(context.Background(), "HR")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, int64(callers), serial)
}

// contestedStore reports a counter that always moved since the read.
type contestedStore struct{}

func (contestedStore) GetSerial(context.Context, string) (int64, bool, error) {
	return 1, true, nil
}

func (contestedStore) CompareAndSwapSerial(context.Context, string, int64, int64) (bool, error) {
	return false, nil
}

func (contestedStore) InitSerial(context.Context, string, int64) (bool, error) {
	return false, nil
}

func TestAllocateRetriesExhausted(t *testing.T) {
	allocator := sequence.NewAllocator(contestedStore{}, "ZTPL", 3, 3, nil)
	_, err := allocator.Allocate(context.Background(), "HR")
	assert.ErrorIs(t, err, sequence.ErrConflict)
}
