package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/model"
	"github.com/zeronetech/boq-procure/internal/repository"
)

// ProjectService covers project browsing and the single-item ledger surface.
type ProjectService struct {
	projects *repository.ProjectRepository
	items    ledger.LineItemStore
	ledger   *ledger.Ledger
}

func NewProjectService(projects *repository.ProjectRepository, items ledger.LineItemStore, led *ledger.Ledger) *ProjectService {
	return &ProjectService{projects: projects, items: items, ledger: led}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects.ListProjects(ctx)
}

// DeleteProject removes the project and, via the schema cascade, every line
// item under it.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: project %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *ProjectService) ListItems(ctx context.Context, projectID uuid.UUID) ([]model.LineItem, error) {
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
		}
		return nil, err
	}
	return s.items.ListItems(ctx, projectID)
}

// ItemBalance reads the item and reports its remaining quantity. The figure
// is a snapshot; a concurrent order can consume it before the caller acts.
func (s *ProjectService) ItemBalance(ctx context.Context, itemID uuid.UUID) (*model.LineItem, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, ledger.ErrItemNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return nil, err
	}
	item.TotalDelivered = ledger.TotalDelivered(item)
	item.Balance = ledger.Balance(item)
	return item, nil
}

// AllocateDelivery commits qty against one delivery slot of one item.
func (s *ProjectService) AllocateDelivery(ctx context.Context, itemID uuid.UUID, slot int, qty decimal.Decimal) (*model.LineItem, error) {
	item, err := s.ledger.Allocate(ctx, itemID, slot, qty)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrItemNotFound):
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		case errors.Is(err, ledger.ErrInvalidSlot), errors.Is(err, ledger.ErrInvalidQty):
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		case errors.Is(err, ledger.ErrConflict):
			return nil, fmt.Errorf("%w: %s", ErrConflict, err)
		}
		return nil, err
	}
	return item, nil
}
