// Package sequence issues purchase-order numbers: globally unique, strictly
// monotonic serials per location, labelled with the Indian financial year.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownLocation = errors.New("unknown location")

	// ErrConflict is returned when concurrent allocations for the same
	// location kept winning the counter race past the bounded retry.
	ErrConflict = errors.New("counter update conflict, retries exhausted")
)

// CounterStore is the durable per-location serial counter.
//
// CompareAndSwapSerial must only apply the update when the stored serial still
// equals old, reporting whether it won. InitSerial creates the counter row with
// the given serial and reports false if the row already existed.
type CounterStore interface {
	GetSerial(ctx context.Context, locationCode string) (serial int64, exists bool, err error)
	CompareAndSwapSerial(ctx context.Context, locationCode string, old, new int64) (bool, error)
	InitSerial(ctx context.Context, locationCode string, serial int64) (bool, error)
}

// Allocator hands out formatted PO numbers. Serials are consumed the moment
// Allocate returns: a number that is never attached to a committed order
// leaves a permanent gap in the sequence, which is accepted behavior.
type Allocator struct {
	store       CounterStore
	prefix      string
	serialWidth int
	maxRetries  int
	now         func() time.Time
}

func NewAllocator(store CounterStore, prefix string, serialWidth, maxRetries int, now func() time.Time) *Allocator {
	if serialWidth < 1 {
		serialWidth = 3
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Allocator{
		store:       store,
		prefix:      prefix,
		serialWidth: serialWidth,
		maxRetries:  maxRetries,
		now:         now,
	}
}

// FiscalYearLabel encodes the Indian financial year (April to March) holding t
// as 2K<YY>-2K<YY+1>.
func FiscalYearLabel(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("2K%02d-2K%02d", start%100, (start+1)%100)
}

// Allocate advances the location's counter and returns the next PO number.
// The read-increment-write is a compare-and-swap loop, so no two callers ever
// observe the same serial even when allocating concurrently.
func (a *Allocator) Allocate(ctx context.Context, locationCode string) (string, error) {
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		serial, exists, err := a.store.GetSerial(ctx, locationCode)
		if err != nil {
			return "", err
		}

		next := serial + 1
		if !exists {
			created, err := a.store.InitSerial(ctx, locationCode, next)
			if err != nil {
				return "", err
			}
			if !created {
				// Lost the first-allocation race; re-read and CAS.
				continue
			}
			return a.Format(locationCode, next), nil
		}

		won, err := a.store.CompareAndSwapSerial(ctx, locationCode, serial, next)
		if err != nil {
			return "", err
		}
		if won {
			return a.Format(locationCode, next), nil
		}
	}
	return "", ErrConflict
}

// Preview formats the number the next Allocate would return without touching
// the counter. It reserves nothing: any allocation in between makes the
// previewed and the eventually issued number differ.
func (a *Allocator) Preview(ctx context.Context, locationCode string) (string, error) {
	serial, _, err := a.store.GetSerial(ctx, locationCode)
	if err != nil {
		return "", err
	}
	return a.Format(locationCode, serial+1), nil
}

// Format renders <prefix>-<LOC>/<fy label>-<serial>. The serial is zero padded
// to the configured width and keeps growing past it, never truncated.
func (a *Allocator) Format(locationCode string, serial int64) string {
	return fmt.Sprintf("%s-%s/%s-%0*d", a.prefix, locationCode, FiscalYearLabel(a.now()), a.serialWidth, serial)
}
