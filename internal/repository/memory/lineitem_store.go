// Package memory holds map-backed implementations of the store interfaces.
// They keep the same guarded-write semantics as the Postgres repositories and
// back the service-level tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/model"
)

type LineItemStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.LineItem
}

func NewLineItemStore() *LineItemStore {
	return &LineItemStore{items: make(map[uuid.UUID]model.LineItem)}
}

// Put seeds an item, assigning an ID when none is set.
func (s *LineItemStore) Put(item model.LineItem) model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item
}

func (s *LineItemStore) GetItem(_ context.Context, id uuid.UUID) (*model.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ledger.ErrItemNotFound
	}
	snapshot := item
	return &snapshot, nil
}

func (s *LineItemStore) ListItems(_ context.Context, projectID uuid.UUID) ([]model.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []model.LineItem
	for _, item := range s.items {
		if item.ProjectID == projectID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BOQRef < items[j].BOQRef })
	return items, nil
}

// ApplyDeliveries mirrors the Postgres repository: the whole batch lands
// under one lock, and any guard miss rejects all of it with ErrStaleItem.
func (s *LineItemStore) ApplyDeliveries(_ context.Context, updates []ledger.DeliveryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, update := range updates {
		item, ok := s.items[update.ItemID]
		if !ok {
			return ledger.ErrItemNotFound
		}
		if !item.TotalDelivered.Equal(update.GuardTotal) {
			return ledger.ErrStaleItem
		}
	}
	for _, update := range updates {
		item := s.items[update.ItemID]
		item.Delivered = update.Delivered
		item.TotalDelivered = update.TotalDelivered
		item.Balance = update.Balance
		s.items[update.ItemID] = item
	}
	return nil
}

func (s *LineItemStore) InsertItem(_ context.Context, item *model.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ProjectID == item.ProjectID && existing.BOQRef == item.BOQRef {
			return fmt.Errorf("duplicate boq_ref %q in project", item.BOQRef)
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = *item
	return nil
}
